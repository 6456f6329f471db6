package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	authinbox "github.com/yoyo-owo/auth-inbox"
)

// reportPageLimit caps how many extracted records the report renders.
const reportPageLimit = 100

// reportRow is one rendered line of the report table. Kind selects the code
// cell's rendering: "split" (code plus a link labeled by topic), "link"
// (hyperlink only), or "text" (plain code).
type reportRow struct {
	CreatedAt time.Time
	Org       string
	From      string
	To        string
	Topic     string
	Kind      string
	Code      string
	Link      string
}

// reportData is the template payload for report.html.
type reportData struct {
	Rows []reportRow
}

// handleReport renders the extracted-code report, most recent first.
func (s *Server) handleReport(c echo.Context) error {
	logger := s.getRequestLogger(c)

	mails, err := s.mailService.ListCodeMails(c.Request().Context(), authinbox.CodeMailFilter{
		Limit: reportPageLimit,
	})
	if err != nil {
		return HandleError(c, logger, err)
	}

	data := reportData{Rows: make([]reportRow, 0, len(mails))}
	for _, m := range mails {
		data.Rows = append(data.Rows, buildReportRow(m))
	}

	return c.Render(http.StatusOK, "report.html", data)
}

// buildReportRow decides how the stored code value renders. The persistence
// layer stores a combined "<code>,<link>" value when extraction found both;
// the first comma splits them back apart. A stored value that is itself a URL
// renders as a hyperlink, anything else as plain text.
func buildReportRow(m *authinbox.CodeMail) reportRow {
	row := reportRow{
		CreatedAt: m.CreatedAt,
		Org:       m.FromOrg,
		From:      m.From,
		To:        m.To,
		Topic:     m.Topic,
	}

	if code, link, found := strings.Cut(m.Code, ","); found {
		row.Kind = "split"
		row.Code = code
		row.Link = link
		return row
	}

	if strings.HasPrefix(m.Code, "http://") || strings.HasPrefix(m.Code, "https://") {
		row.Kind = "link"
		row.Link = m.Code
		return row
	}

	row.Kind = "text"
	row.Code = m.Code
	return row
}
