package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DistriaGit/distria_api/internal/agent"
	"github.com/DistriaGit/distria_api/internal/cache"
	"github.com/DistriaGit/distria_api/internal/utils"
)

// ChatHandler runs the conversational sales agent for the authenticated
// salesperson. Conversation state lives in the session store; each request
// loads it, runs one agent invocation, and writes the exchange back.
type ChatHandler struct {
	agent    *agent.Agent
	sessions *cache.SessionStore
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(a *agent.Agent, sessions *cache.SessionStore) *ChatHandler {
	return &ChatHandler{agent: a, sessions: sessions}
}

// ChatRequest is one user message. ClientID optionally pins the conversation
// to a specific customer so tools stop asking which client is meant.
type ChatRequest struct {
	Message  string `json:"message" binding:"required"`
	ClientID *int   `json:"clientId"`
}

// ChatResponse carries the agent's reply and the tool-call trace.
type ChatResponse struct {
	Reply     string                 `json:"reply"`
	ToolCalls []agent.ToolCallRecord `json:"toolCalls,omitempty"`
}

// Chat handles POST /v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	distributorID, salespersonID, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.ClientID != nil && *req.ClientID <= 0 {
		utils.Error(c, 400, "VALIDATION_ERROR", "clientId must be a positive integer")
		return
	}

	history, err := h.sessions.Get(c.Request.Context(), distributorID, salespersonID)
	if err != nil {
		log.Error().Err(err).Msg("session load failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Something went wrong")
		return
	}

	tenant := agent.TenantContext{
		DistributorID: distributorID,
		SalespersonID: salespersonID,
		CustomerID:    req.ClientID,
	}
	reply, err := h.agent.Run(c.Request.Context(), tenant, history, req.Message)
	if err != nil {
		if errors.Is(err, agent.ErrLLMNotConfigured) {
			utils.Error(c, 503, "AGENT_UNAVAILABLE", "The chat agent is not configured")
			return
		}
		log.Error().Err(err).Msg("agent invocation failed")
		utils.Error(c, 502, "AGENT_ERROR", "The chat agent failed to answer")
		return
	}

	if err := h.sessions.Save(c.Request.Context(), distributorID, salespersonID, reply.Messages); err != nil {
		// Losing one exchange of history is preferable to failing the reply.
		log.Warn().Err(err).Msg("session save failed")
	}

	utils.Success(c, 200, "Reply generated", ChatResponse{Reply: reply.Text, ToolCalls: reply.ToolCalls})
}

// ResetChat handles DELETE /v1/chat
func (h *ChatHandler) ResetChat(c *gin.Context) {
	distributorID, salespersonID, ok := tenantFrom(c)
	if !ok {
		utils.Error(c, 401, "UNAUTHORIZED", "No tenant context")
		return
	}
	if err := h.sessions.Clear(c.Request.Context(), distributorID, salespersonID); err != nil {
		log.Error().Err(err).Msg("session clear failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Something went wrong")
		return
	}
	utils.Success(c, 200, "Conversation reset", nil)
}
