package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"t4auto/internal/cancel"
	"t4auto/internal/domain"
	"t4auto/internal/redcat"
	"t4auto/internal/retry"
)

// catalogServer is a minimal back office: item searches are paged 100 at a
// time and a keyword listed in failAt answers success:false from that offset.
type catalogServer struct {
	catalog map[string]int
	failAt  map[string]int

	mu     sync.Mutex
	pages  map[string][]int
	posted []int
}

func (c *catalogServer) start(t *testing.T) string {
	t.Helper()

	reply := func(w http.ResponseWriter, body any) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("failed to encode test response: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		reply(w, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /api/v1/config/lookup/stores/", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]any{"success": true, "data": []any{map[string]any{"name": "Perth CBD", "value": 42}}})
	})
	mux.HandleFunc("GET /api/v1/plus-active/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		keyword := q.Get("qv")
		start, _ := strconv.Atoi(q.Get("start"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		c.mu.Lock()
		c.pages[keyword] = append(c.pages[keyword], start)
		c.mu.Unlock()

		if at, ok := c.failAt[keyword]; ok && start == at {
			reply(w, map[string]any{"success": false, "msg": "database busy"})
			return
		}
		total := c.catalog[keyword]
		page := []any{}
		for i := start; i < min(start+limit, total); i++ {
			page = append(page, map[string]any{"PLUCode": 1000 + i, "Name": keyword + " " + strconv.Itoa(i)})
		}
		reply(w, map[string]any{"success": true, "data": page, "count": len(page), "total": total})
	})
	mux.HandleFunc("POST /api/v1/pluavailabilityrules", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		c.mu.Lock()
		c.posted = append(c.posted, len(r.PostForm["PLUCode"]))
		c.mu.Unlock()
		reply(w, map[string]any{"success": true, "msg": "ok"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

// stopRecorder keeps executions and triggers sig once it has seen n.
type stopRecorder struct {
	memRecorder
	n   int
	sig *cancel.Signal
}

func (r *stopRecorder) Record(e domain.Execution) {
	r.memRecorder.Record(e)
	r.mu.Lock()
	seen := len(r.execs)
	r.mu.Unlock()
	if seen >= r.n {
		r.sig.Trigger()
	}
}

func TestRun_ClientFailureMidSearchRearmsAndContinues(t *testing.T) {
	backOffice := &catalogServer{
		catalog: map[string]int{"milk": 250, "bread": 250},
		failAt:  map[string]int{"milk": 100},
		pages:   make(map[string][]int),
	}
	client := redcat.New(redcat.Options{
		BaseURL: backOffice.start(t),
		Timeout: 5 * time.Second,
		Retry:   &retry.Config{MaxAttempts: 1},
	})
	status, err := client.Login(context.Background(), domain.Credentials{Username: "ops", Password: "pw"})
	if err != nil || !status.Success {
		t.Fatalf("Login() = %+v, %v", status, err)
	}

	sig := cancel.New()
	rec := &stopRecorder{n: 2, sig: sig}
	s := New(client, WithRecorder(rec))

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	milk := action(0, "milk", domain.TakeOffline, base)
	bread := action(1, "bread", domain.TakeOffline, base.Add(time.Second))

	if err := runUntilReturn(t, s, context.Background(), []*domain.ActionRow{milk, bread}, sig); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.execs) != 2 {
		t.Fatalf("expected 2 executions, got %d", len(rec.execs))
	}
	milkExec, breadExec := rec.execs[0], rec.execs[1]
	if milkExec.Action.Keyword != "milk" || !errors.Is(milkExec.Err, domain.ErrRejected) {
		t.Errorf("expected milk to fail with ErrRejected, got %s: %v", milkExec.Action.Keyword, milkExec.Err)
	}
	if milkExec.Items != 0 {
		t.Errorf("expected no items for failed milk search, got %d", milkExec.Items)
	}
	if breadExec.Action.Keyword != "bread" || breadExec.Err != nil || breadExec.Items != 250 {
		t.Errorf("expected bread to take 250 items offline, got %s: %d, %v", breadExec.Action.Keyword, breadExec.Items, breadExec.Err)
	}

	if want := base.AddDate(0, 0, 1); !milk.ActionTime.Equal(want) {
		t.Errorf("expected milk re-armed to %v, got %v", want, milk.ActionTime)
	}
	if want := base.Add(time.Second).AddDate(0, 0, 1); !bread.ActionTime.Equal(want) {
		t.Errorf("expected bread re-armed to %v, got %v", want, bread.ActionTime)
	}

	backOffice.mu.Lock()
	defer backOffice.mu.Unlock()
	if got := backOffice.pages["milk"]; len(got) != 2 {
		t.Errorf("expected milk search to stop at page 2, fetched offsets %v", got)
	}
	if got := backOffice.pages["bread"]; len(got) != 3 {
		t.Errorf("expected 3 bread pages, fetched offsets %v", got)
	}
	if len(backOffice.posted) != 1 || backOffice.posted[0] != 250 {
		t.Errorf("expected one offline request for 250 items, got %v", backOffice.posted)
	}
}
