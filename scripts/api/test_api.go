// Minimal end-to-end integration test for the Survey API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:8080/v1")
	email    = getenv("ADMIN_EMAIL", "admin@example.com")
	password = getenv("ADMIN_PASSWORD", "changeme")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	token := login()

	qID := createQuestion(token, "scale", "smoke-test "+uuid.NewString())
	checkCatalog(token, qID)

	sessID := startSession()
	answerAll(sessID)
	subID := submit(sessID)
	checkResponses(token, qID, subID)

	deleteQuestion(token, qID)

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- auth

func login() string {
	var resp struct{ Token string }
	doJSON("POST", "/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, &resp, http.StatusOK)
	if resp.Token == "" {
		log.Fatal("login: empty token")
	}
	return resp.Token
}

// ----------------------------- catalog

func createQuestion(tok, qtype, text string) uint64 {
	var resp struct{ ID uint64 }
	doAuth(tok, "POST", "/admin/questions", map[string]any{
		"text": text,
		"type": qtype,
	}, &resp, http.StatusCreated)
	return resp.ID
}

func checkCatalog(tok string, want uint64) {
	var qs []struct{ ID uint64 }
	doAuth(tok, "GET", "/admin/questions", nil, &qs, http.StatusOK)
	for _, q := range qs {
		if q.ID == want {
			return
		}
	}
	log.Fatal("catalog: created question not found")
}

func deleteQuestion(tok string, id uint64) {
	doAuth(tok, "DELETE", fmt.Sprintf("/admin/questions/%d", id), nil, nil, http.StatusOK)
}

// ----------------------------- respondent flow

func startSession() string {
	var resp struct {
		ID    string
		State string
		Total int
	}
	doJSON("POST", "/sessions", map[string]any{}, &resp, http.StatusCreated)
	if resp.ID == "" || resp.State != "active" {
		log.Fatalf("session: unexpected start state %+v", resp)
	}
	return resp.ID
}

func answerAll(sessID string) {
	for {
		var state struct{ State string }
		doJSON("GET", "/sessions/"+sessID, nil, &state, http.StatusOK)
		if state.State != "active" {
			return
		}
		doJSON("POST", "/sessions/"+sessID+"/answers", map[string]any{
			"response": "7",
		}, nil, http.StatusOK)
	}
}

func submit(sessID string) string {
	var resp struct {
		SubmissionID string `json:"submission_id"`
	}
	doJSON("POST", "/sessions/"+sessID+"/submit", map[string]any{
		"instagram":    "@smoke",
		"phone_number": "",
	}, &resp, http.StatusCreated)
	if resp.SubmissionID == "" {
		log.Fatal("submit: empty submission id")
	}
	return resp.SubmissionID
}

func checkResponses(tok string, qID uint64, subID string) {
	var rows []struct {
		SubmissionID string `json:"submission_id"`
	}
	doAuth(tok, "GET", fmt.Sprintf("/admin/responses?question_id=%d", qID), nil, &rows, http.StatusOK)
	for _, r := range rows {
		if r.SubmissionID == subID {
			return
		}
	}
	log.Fatal("responses: submission not found")
}

// ----------------------------- helpers

func doAuth(token, method, path string, body, out any, want int) {
	doReq(method, path, token, body, out, want)
}

func doJSON(method, path string, body, out any, want int) {
	doReq(method, path, "", body, out, want)
}

func doReq(method, path, token string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
