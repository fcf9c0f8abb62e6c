package gin

import (
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/fwojciec/tenk"
	"github.com/gin-gonic/gin"
)

// Form actions.
const (
	ActionQueryYear  = "year"
	ActionQueryAll   = "global"
	ActionComposable = "composable"
	ActionAnswerYear = "answer"
)

//go:embed templates/page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// page is the view model of the web shell.
type page struct {
	APIKey     string
	DataDir    string
	QueryTypes []tenk.QueryType
	QueryType  tenk.QueryType
	Years      []tenk.Year
	Year       tenk.Year
	Query      string
	Action     string

	Warnings []string
	Errors   []string

	Sections []section
	Answer   string
	Sources  string
}

// section is a titled list of retrieved fragments.
type section struct {
	Title     string
	Fragments []string
}

func (s *Server) newPage() *page {
	years := tenk.FiscalYearsDescending()
	return &page{
		DataDir:    s.DataDir,
		QueryTypes: tenk.QueryTypes(),
		QueryType:  tenk.QueryTypeRiskFactors,
		Years:      years,
		Year:       years[0],
	}
}

func (p *page) warn(msg string) {
	p.Warnings = append(p.Warnings, msg)
}

func (s *Server) handleIndex(c *gin.Context) {
	p := s.newPage()
	tenk.CaptureCredential("", p.warn)
	c.HTML(http.StatusOK, "page", p)
}

// handleForm runs the submitted action and renders its results. Failures
// are rendered as error blocks on the page.
func (s *Server) handleForm(c *gin.Context) {
	p := s.newPage()
	p.APIKey = c.PostForm("api_key")
	if dir := strings.TrimSpace(c.PostForm("data_dir")); dir != "" {
		p.DataDir = dir
	}
	if qt := c.PostForm("query_type"); qt != "" {
		p.QueryType = tenk.QueryType(qt)
	}
	p.Query = c.PostForm("query")
	p.Action = c.PostForm("action")

	cred := tenk.CaptureCredential(p.APIKey, p.warn)

	if y := c.PostForm("year"); y != "" {
		year, err := tenk.ParseYear(y)
		if err != nil {
			s.fail(c, p, cred, err)
			c.HTML(http.StatusOK, "page", p)
			return
		}
		p.Year = year
	}

	if err := s.run(c, p, cred); err != nil {
		s.fail(c, p, cred, err)
	}
	c.HTML(http.StatusOK, "page", p)
}

func (s *Server) run(c *gin.Context, p *page, cred tenk.Credential) error {
	ctx := c.Request.Context()

	switch p.Action {
	case ActionQueryYear:
		query, err := tenk.ResolveQuery(p.Query, p.QueryType)
		if err != nil {
			return err
		}
		results, err := s.Queries.QueryYear(ctx, cred, p.DataDir, p.Year, query, s.topK(0))
		if err != nil {
			return err
		}
		p.Sections = []section{newSection(p.Year, results)}

	case ActionQueryAll:
		query, err := tenk.ResolveQuery(p.Query, p.QueryType)
		if err != nil {
			return err
		}
		results, err := s.Queries.QueryAllYears(ctx, cred, p.DataDir, query, s.topK(0))
		if err != nil {
			return err
		}
		for _, y := range tenk.FiscalYearsDescending() {
			p.Sections = append(p.Sections, newSection(y, results[y]))
		}

	case ActionComposable, ActionAnswerYear:
		// The warning rendered by CaptureCredential is the whole response.
		if !cred.Available() {
			return nil
		}
		var answer *tenk.SynthesizedAnswer
		var err error
		if p.Action == ActionComposable {
			query := tenk.RiskSummaryQuestion
			if strings.TrimSpace(p.Query) != "" {
				query = p.Query
			}
			answer, err = s.Queries.QueryGraph(ctx, cred, p.DataDir, query)
		} else {
			var query string
			if query, err = tenk.ResolveQuery(p.Query, p.QueryType); err != nil {
				return err
			}
			answer, err = s.Queries.AnswerYear(ctx, cred, p.DataDir, p.Year, query, s.topK(0))
		}
		if err != nil {
			return err
		}
		p.Answer = answer.Text
		p.Sources = answer.FormattedSources()

	default:
		return tenk.Errorf(tenk.EINVALID, "unknown action %q", p.Action)
	}
	return nil
}

// fail renders err on the page. A missing credential is already reported
// as a warning.
func (s *Server) fail(c *gin.Context, p *page, cred tenk.Credential, err error) {
	code := tenk.ErrorCode(err)
	if code == tenk.EUNAUTHORIZED && !cred.Available() {
		return
	}
	if code == tenk.EINTERNAL {
		s.logger().Error("action failed", "action", p.Action, "dir", p.DataDir, "error", err)
	}
	p.Errors = append(p.Errors, tenk.ErrorMessage(err))
}

func newSection(year tenk.Year, results []*tenk.TextResult) section {
	sec := section{Title: fmt.Sprintf("Response for year %d", int(year))}
	for _, r := range results {
		sec.Fragments = append(sec.Fragments, r.Record.Text)
	}
	return sec
}
