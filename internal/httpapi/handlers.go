package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamesfeng2009/forecastdesk/internal/app"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

const ctxSession = "session"

// kindSessionLimit is reported when no session can be opened.
const kindSessionLimit domain.ErrorKind = "SessionLimitReached"

type textRequest struct {
	Text string `json:"text"`
}

type orderJSONRequest struct {
	OrderJSON string `json:"order_json"`
}

type draftRequest struct {
	Text       string `json:"text"`
	Reset      bool   `json:"reset"`
	AutoSubmit bool   `json:"auto_submit"`
}

// respond writes env with 200 on success and 422 on an entry-point error.
func respond(c *gin.Context, env contract.Envelope) {
	status := http.StatusOK
	if !env.OK() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, env)
}

func reject(c *gin.Context, status int, kind domain.ErrorKind, msg string) {
	c.AbortWithStatusJSON(status, contract.Envelope{
		Status: contract.StatusError,
		Error:  &contract.ErrorDetail{Kind: kind, Message: msg},
	})
}

func (s *Server) requireSession(c *gin.Context) {
	sess, ok := s.session(c.Param("session"))
	if !ok {
		reject(c, http.StatusNotFound, domain.KindNotFound, "unknown session")
		return
	}
	c.Set(ctxSession, sess)
	c.Next()
}

func sessionOf(c *gin.Context) app.Session {
	return c.MustGet(ctxSession).(app.Session)
}

// bindJSON decodes the request body into dst. An empty body leaves dst
// untouched.
func bindJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		reject(c, http.StatusBadRequest, domain.KindMalformedInput, "request body must be a JSON object: "+err.Error())
		return false
	}
	return true
}

// rawBody returns the body as a string so that the pipeline reports
// undecodable orders itself.
func rawBody(c *gin.Context) (string, bool) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		reject(c, http.StatusRequestEntityTooLarge, domain.KindMalformedInput, "request body too large")
		return "", false
	}
	return string(raw), true
}

func (s *Server) handleOpenSession(c *gin.Context) {
	id, err := s.openSession()
	if err != nil {
		reject(c, http.StatusTooManyRequests, kindSessionLimit, err.Error())
		return
	}
	c.JSON(http.StatusCreated, contract.Success(gin.H{"session_id": id}))
}

func (s *Server) handleCloseSession(c *gin.Context) {
	if !s.closeSession(c.Param("session")) {
		reject(c, http.StatusNotFound, domain.KindNotFound, "unknown session")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSubmitText(c *gin.Context) {
	var req textRequest
	if !bindJSON(c, &req) {
		return
	}
	respond(c, sessionOf(c).SubmitFromText(c.Request.Context(), req.Text))
}

func (s *Server) handleSubmitJSON(c *gin.Context) {
	var req orderJSONRequest
	if !bindJSON(c, &req) {
		return
	}
	respond(c, sessionOf(c).SubmitOrderJSON(c.Request.Context(), req.OrderJSON))
}

func (s *Server) handleSubmitOrder(c *gin.Context) {
	raw, ok := rawBody(c)
	if !ok {
		return
	}
	respond(c, sessionOf(c).SubmitOrder(c.Request.Context(), raw))
}

func (s *Server) handleBuildPayload(c *gin.Context) {
	raw, ok := rawBody(c)
	if !ok {
		return
	}
	respond(c, sessionOf(c).BuildPayload(c.Request.Context(), raw))
}

func (s *Server) handleDraftStatus(c *gin.Context) {
	respond(c, sessionOf(c).DraftStatus(c.Request.Context()))
}

func (s *Server) handleAccumulateDraft(c *gin.Context) {
	var req draftRequest
	if !bindJSON(c, &req) {
		return
	}
	opts := app.DraftOptions{Reset: req.Reset, AutoSubmit: req.AutoSubmit}
	respond(c, sessionOf(c).AccumulateDraft(c.Request.Context(), req.Text, opts))
}

func (s *Server) handleSubmitDraft(c *gin.Context) {
	respond(c, sessionOf(c).SubmitDraft(c.Request.Context()))
}

func (s *Server) handleResetDraft(c *gin.Context) {
	respond(c, sessionOf(c).ResetDraft(c.Request.Context()))
}

func (s *Server) handleLastOrder(c *gin.Context) {
	respond(c, sessionOf(c).LastOrderReference(c.Request.Context()))
}

func (s *Server) handleLastOrderStatus(c *gin.Context) {
	respond(c, sessionOf(c).QueryLastOrderStatus(c.Request.Context()))
}

func (s *Server) handleTrack(c *gin.Context) {
	respond(c, sessionOf(c).QueryStatus(c.Request.Context(), c.Param("number")))
}

func (s *Server) handleWaybills(c *gin.Context) {
	raw, ok := rawBody(c)
	if !ok {
		return
	}
	respond(c, sessionOf(c).GetWaybillNumbers(c.Request.Context(), raw))
}

func (s *Server) handleOptions(c *gin.Context) {
	respond(c, sessionOf(c).ListOptions(c.Request.Context(), c.Param("dictionary")))
}
