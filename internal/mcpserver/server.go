// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes habit tracking tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/uruz/internal/models"
	"github.com/starford/uruz/internal/store"
	"github.com/starford/uruz/internal/streak"
)

// Server wraps the MCP server with Uruz tools.
type Server struct {
	mcp    *server.MCPServer
	store  store.ProgressStore
	engine *streak.Engine
}

// New creates a new MCP server with all habit tools registered.
func New(st store.ProgressStore, engine *streak.Engine) *Server {
	s := &Server{store: st, engine: engine}

	s.mcp = server.NewMCPServer(
		"Uruz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_habits",
		mcp.WithDescription("List the habits a user is tracking, with their current streaks."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Name of the user")),
	), s.listHabits)

	s.mcp.AddTool(mcp.NewTool("add_habit",
		mcp.WithDescription("Start tracking a new habit for a user."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Name of the user")),
		mcp.WithString("habit", mcp.Required(), mcp.Description("Name of the habit to track")),
	), s.addHabit)

	s.mcp.AddTool(mcp.NewTool("log_checkin",
		mcp.WithDescription("Record whether a habit was completed today. "+
			"Logging the same day twice overwrites the earlier record."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Name of the user")),
		mcp.WithString("habit", mcp.Required(), mcp.Description("Name of the habit")),
		mcp.WithBoolean("completed", mcp.Required(), mcp.Description("Whether the habit was completed")),
	), s.logCheckIn)

	s.mcp.AddTool(mcp.NewTool("get_streak",
		mcp.WithDescription("Get the current consecutive-day streak and milestone status for a habit."),
		mcp.WithString("user", mcp.Required(), mcp.Description("Name of the user")),
		mcp.WithString("habit", mcp.Required(), mcp.Description("Name of the habit")),
	), s.getStreak)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listHabits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userName, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	user, err := s.store.GetOrCreateUser(userName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	habits, err := s.store.ListHabits(user.ID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(habits) == 0 {
		return mcp.NewToolResultText("no habits tracked"), nil
	}

	var lines []string
	today := time.Now()
	for _, h := range habits {
		dates, err := s.store.CompletedDates(h.ID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res := s.engine.Compute(dates, today)
		lines = append(lines, fmt.Sprintf("%s: %d day(s)", h.Name, res.Current))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) addHabit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userName, err := req.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	habitName, err := req.RequireString("habit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	user, err := s.store.GetOrCreateUser(userName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.store.CreateHabit(user.ID, habitName); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add habit: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("tracking: %s", habitName)), nil
}

func (s *Server) logCheckIn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	habit, errResult := s.resolveHabit(req)
	if errResult != nil {
		return errResult, nil
	}
	completed, err := req.RequireBool("completed")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	today := time.Now()
	if err := s.store.UpsertCheckIn(habit.ID, today, completed); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dates, err := s.store.CompletedDates(habit.ID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := s.engine.Compute(dates, today)
	out, _ := json.MarshalIndent(map[string]any{
		"habit":        habit.Name,
		"completed":    completed,
		"streak":       res.Current,
		"is_milestone": res.IsMilestone,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getStreak(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	habit, errResult := s.resolveHabit(req)
	if errResult != nil {
		return errResult, nil
	}
	dates, err := s.store.CompletedDates(habit.ID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := s.engine.Compute(dates, time.Now())
	out, _ := json.MarshalIndent(map[string]any{
		"habit":        habit.Name,
		"streak":       res.Current,
		"is_milestone": res.IsMilestone,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

// resolveHabit looks up the habit named in the request for the named user.
// A non-nil result means the lookup failed and should be returned as-is.
func (s *Server) resolveHabit(req mcp.CallToolRequest) (*models.Habit, *mcp.CallToolResult) {
	userName, err := req.RequireString("user")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	habitName, err := req.RequireString("habit")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	user, err := s.store.GetOrCreateUser(userName)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	habits, err := s.store.ListHabits(user.ID)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	for i := range habits {
		if habits[i].Name == habitName {
			return &habits[i], nil
		}
	}
	return nil, mcp.NewToolResultError(fmt.Sprintf("habit not found: %s", habitName))
}
