package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestHandlerRendersConnectCommand(t *testing.T) {
	h := handler(pageData{SSHHost: "play.example.com", SSHPort: "2222", TimeLimit: 10}, log.New(io.Discard))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"ssh -t -p 2222 play.example.com", "10 seconds"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
