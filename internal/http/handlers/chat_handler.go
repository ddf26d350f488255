// Chat HTTP handlers.
//
// This file exposes the coach chat log:
//   - GET  /chat   (paginated, ascending, weak ETag)
//   - POST /chat   (append a user message and the assistant reply)
//
// A replayed POST (same Idempotency-Key) returns the two messages the
// original request stored instead of appending new ones.
package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/http/middleware"
	"github.com/tbourn/trainflow-backend/internal/repo"
)

//
// DTOs
//

// PostChatRequest is the JSON payload for sending a chat message.
type PostChatRequest struct {
	Content string `json:"content" binding:"required" example:"Can we make Wednesday a rest day?"`
}

// ChatMessagesResponse carries the user message and the assistant reply.
type ChatMessagesResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// ListChatResponse contains a page of the chat log and pagination metadata.
type ListChatResponse struct {
	Messages   []domain.ChatMessage `json:"messages"`
	Pagination Pagination           `json:"pagination"`
}

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent converts CRLF/CR to LF, collapses blank-line runs and
// trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ListChat godoc
// @ID          listChat
// @Summary     Read the chat log
// @Description Returns a page of the user's chat messages, oldest first. Supports weak ETag via If-None-Match.
// @Tags        Chat
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(200) default(50)
//
// @Success     200  {object} handlers.ListChatResponse
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /chat [get]
func (h *Handlers) ListChat(c *gin.Context) {
	ctx := c.Request.Context()
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	page, pageSize := clampPagination(c)

	if db := dbOf(h.chat); db != nil {
		if v, err := repo.ChatVersion(ctx, db, uid); err == nil &&
			notModified(c, v.ETag("chat", uid, strconv.Itoa(page), strconv.Itoa(pageSize))) {
			return
		}
	}

	items, total, err := h.chat.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.ChatMessage{}
	}
	ok(c, http.StatusOK, ListChatResponse{
		Messages:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// PostChat godoc
// @ID          postChat
// @Summary     Send a chat message
// @Description Appends the user's message and the assistant's reply atomically.
// @Description Supports idempotency via the Idempotency-Key header (same key → same messages).
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.PostChatRequest  true  "Message"
//
// @Success     201  {object}  handlers.ChatMessagesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat [post]
func (h *Handlers) PostChat(c *gin.Context) {
	ctx := c.Request.Context()
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}

	var req PostChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	content := sanitizeContent(req.Content)

	idemKey, _ := middleware.GetIdempotencyKey(c)
	scope := middleware.IdempotencyScope(c)
	db := dbOf(h.chat)

	if idemKey != "" && db != nil {
		if rec, err := repo.GetIdempotency(ctx, db, uid, scope, idemKey, h.now().UTC()); err == nil {
			ids := rec.ResourceIDs()
			if prev, err := h.chat.Get(ctx, uid, ids); err == nil && len(prev) == len(ids) {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, rec.Status, ChatMessagesResponse{Messages: prev})
				return
			}
		}
	}

	msgs, err := h.chat.Send(ctx, uid, content)
	if err != nil {
		failErr(c, err)
		return
	}

	if idemKey != "" && db != nil {
		ids := make([]string, len(msgs))
		for i, m := range msgs {
			ids[i] = m.ID
		}
		rec := domain.NewIdempotency(uid, scope, idemKey, http.StatusCreated, h.now(), h.IdempotencyTTL, ids...)
		if err := repo.CreateIdempotency(ctx, db, rec); err != nil && !repo.IsDuplicate(err) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency store failed")
		}
	}

	ok(c, http.StatusCreated, ChatMessagesResponse{Messages: msgs})
}
