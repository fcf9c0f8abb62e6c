package gin

import (
	"net/http"
	"strings"

	"github.com/fwojciec/tenk"
	"github.com/gin-gonic/gin"
)

// queryRequest is the body of every JSON API query.
type queryRequest struct {
	DataDir   string `json:"dataDir"`
	Year      int    `json:"year"`
	QueryType string `json:"queryType"`
	Query     string `json:"query"`
	TopK      int    `json:"topK"`
}

// yearResponse is returned by the per-year endpoints.
type yearResponse struct {
	Year    tenk.Year          `json:"year"`
	Results []*tenk.TextResult `json:"results"`
}

// answerResponse is returned by the synthesizing endpoints.
type answerResponse struct {
	Text             string             `json:"text"`
	Sources          []*tenk.TextResult `json:"sources"`
	FormattedSources string             `json:"formattedSources"`
}

func newAnswerResponse(a *tenk.SynthesizedAnswer) answerResponse {
	return answerResponse{Text: a.Text, Sources: a.Sources, FormattedSources: a.FormattedSources()}
}

func bindQuery(c *gin.Context) (*queryRequest, tenk.Credential, error) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, tenk.Credential{}, tenk.Errorf(tenk.EINVALID, "invalid request body: %v", err)
	}
	cred := tenk.CaptureCredential(c.GetHeader(APIKeyHeader), nil)
	return &req, cred, nil
}

func (s *Server) handleQueryYear(c *gin.Context) {
	req, cred, err := bindQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	year := tenk.Year(req.Year)
	query, err := tenk.ResolveQuery(req.Query, tenk.QueryType(req.QueryType))
	if err != nil {
		s.writeError(c, err)
		return
	}

	results, err := s.Queries.QueryYear(c.Request.Context(), cred, s.dataDir(req.DataDir), year, query, s.topK(req.TopK))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, yearResponse{Year: year, Results: results})
}

func (s *Server) handleQueryAllYears(c *gin.Context) {
	req, cred, err := bindQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	query, err := tenk.ResolveQuery(req.Query, tenk.QueryType(req.QueryType))
	if err != nil {
		s.writeError(c, err)
		return
	}

	results, err := s.Queries.QueryAllYears(c.Request.Context(), cred, s.dataDir(req.DataDir), query, s.topK(req.TopK))
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]yearResponse, 0, len(results))
	for _, y := range tenk.FiscalYearsDescending() {
		if rs, ok := results[y]; ok {
			out = append(out, yearResponse{Year: y, Results: rs})
		}
	}
	c.JSON(http.StatusOK, gin.H{"years": out})
}

func (s *Server) handleQueryGraph(c *gin.Context) {
	req, cred, err := bindQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	query, err := graphQuery(req.Query, tenk.QueryType(req.QueryType))
	if err != nil {
		s.writeError(c, err)
		return
	}

	answer, err := s.Queries.QueryGraph(c.Request.Context(), cred, s.dataDir(req.DataDir), query)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAnswerResponse(answer))
}

func (s *Server) handleAnswerYear(c *gin.Context) {
	req, cred, err := bindQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	query, err := tenk.ResolveQuery(req.Query, tenk.QueryType(req.QueryType))
	if err != nil {
		s.writeError(c, err)
		return
	}

	answer, err := s.Queries.AnswerYear(c.Request.Context(), cred, s.dataDir(req.DataDir), tenk.Year(req.Year), query, s.topK(req.TopK))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAnswerResponse(answer))
}

// graphQuery returns the cross-year question: free text, the canned
// question of queryType, or the risk summary question when neither is set.
func graphQuery(text string, queryType tenk.QueryType) (string, error) {
	if strings.TrimSpace(text) == "" && queryType == "" {
		return tenk.RiskSummaryQuestion, nil
	}
	return tenk.ResolveQuery(text, queryType)
}
