package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/uruz/internal/streak"
	"github.com/starford/uruz/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db := testutil.TestDB(t)
	return New(db, streak.New(nil))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_habits":
		result, err = srv.listHabits(ctx, req)
	case "add_habit":
		result, err = srv.addHabit(ctx, req)
	case "log_checkin":
		result, err = srv.logCheckIn(ctx, req)
	case "get_streak":
		result, err = srv.getStreak(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAddHabitAndList(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "add_habit", map[string]interface{}{
		"user":  "alex",
		"habit": "jog",
	})
	if text := resultText(r); text != "tracking: jog" {
		t.Errorf("add result = %q", text)
	}

	r = callTool(t, srv, "list_habits", map[string]interface{}{"user": "alex"})
	if text := resultText(r); !strings.Contains(text, "jog: 0 day(s)") {
		t.Errorf("list result = %q", text)
	}
}

func TestListHabitsEmpty(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_habits", map[string]interface{}{"user": "alex"})
	if text := resultText(r); text != "no habits tracked" {
		t.Errorf("list result = %q", text)
	}
}

func TestLogCheckInReportsStreak(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "add_habit", map[string]interface{}{"user": "alex", "habit": "jog"})

	// Seed the two prior days directly so today's log completes a milestone.
	user, err := srv.store.GetOrCreateUser("alex")
	if err != nil {
		t.Fatal(err)
	}
	habits, err := srv.store.ListHabits(user.ID)
	if err != nil || len(habits) != 1 {
		t.Fatalf("habits = %v, err = %v", habits, err)
	}
	now := time.Now()
	_ = srv.store.UpsertCheckIn(habits[0].ID, now.AddDate(0, 0, -1), true)
	_ = srv.store.UpsertCheckIn(habits[0].ID, now.AddDate(0, 0, -2), true)

	r := callTool(t, srv, "log_checkin", map[string]interface{}{
		"user":      "alex",
		"habit":     "jog",
		"completed": true,
	})
	text := resultText(r)
	if !strings.Contains(text, `"streak": 3`) {
		t.Errorf("log result = %q, want streak 3", text)
	}
	if !strings.Contains(text, `"is_milestone": true`) {
		t.Errorf("log result = %q, want milestone", text)
	}
}

func TestGetStreakUnknownHabit(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_streak", map[string]interface{}{
		"user":  "alex",
		"habit": "nope",
	})
	if !r.IsError {
		t.Error("unknown habit should return a tool error")
	}
	if text := resultText(r); !strings.Contains(text, "habit not found") {
		t.Errorf("error text = %q", text)
	}
}

func TestLogCheckInMissingArgs(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "log_checkin", map[string]interface{}{"user": "alex"})
	if !r.IsError {
		t.Error("missing args should return a tool error")
	}
}
