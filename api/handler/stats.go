package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/bot/pkg/httpcontext"
	"github.com/taskdeck/bot/repository"
)

// StatsHandler serves aggregate counters for operators, behind the admin
// JWT middleware.
type StatsHandler struct {
	baseHandler
	tasks repository.TaskRepository
	users repository.UserRepository
}

func NewStatsHandler(tasks repository.TaskRepository, users repository.UserRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       tasks,
		users:       users,
	}
}

type statsResponse struct {
	TotalUsers int `json:"total_users"`
	TotalTasks int `json:"total_tasks"`
}

func (h *StatsHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.adapter.Attach(ctx)
	defer cancel()

	users, err := h.users.CountUsers(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	tasks, err := h.tasks.CountTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, statsResponse{
		TotalUsers: users,
		TotalTasks: tasks,
	})
}
