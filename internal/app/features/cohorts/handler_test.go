// internal/app/features/cohorts/handler_test.go
package cohorts_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/cohorthub/internal/app/cohort"
	"github.com/dalemusser/cohorthub/internal/app/features/cohorts"
	"github.com/dalemusser/cohorthub/internal/app/system/ratelimit"
	"github.com/dalemusser/cohorthub/internal/domain/models"
	"github.com/dalemusser/cohorthub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (chi.Router, *testutil.CohortRepo) {
	t.Helper()
	repo := testutil.NewCohortRepo()
	svc := cohort.New(repo, nil, zap.NewNop())
	h := cohorts.NewHandler(svc, nil, zap.NewNop())
	return cohorts.Routes(h), repo
}

func postJSON(t *testing.T, router chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeCohort(t *testing.T, rec *httptest.ResponseRecorder) models.Cohort {
	t.Helper()
	var c models.Cohort
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("parse cohort response: %v", err)
	}
	return c
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	return resp.Error
}

func TestHandleJoin_CreatesCohort(t *testing.T) {
	router, _ := newTestRouter(t)
	user := primitive.NewObjectID()
	goal := primitive.NewObjectID()

	rec := postJSON(t, router, "/join", map[string]string{
		"user_id": user.Hex(),
		"goal_id": goal.Hex(),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}

	c := decodeCohort(t, rec)
	if len(c.Teams) != 6 {
		t.Errorf("teams: got %d, want 6", len(c.Teams))
	}
	if c.MemberSlotsRemaining != 29 {
		t.Errorf("member_slots_remaining: got %d, want 29", c.MemberSlotsRemaining)
	}
	if len(c.Members) != 1 || c.Members[0].User != user {
		t.Errorf("members: got %+v, want the joining user", c.Members)
	}
}

func TestHandleJoin_BadRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	// Malformed body
	req := httptest.NewRequest("POST", "/join", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// Bad user id
	rec = postJSON(t, router, "/join", map[string]string{
		"user_id": "nope",
		"goal_id": primitive.NewObjectID().Hex(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad user_id: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := decodeError(t, rec); msg != "invalid user_id" {
		t.Errorf("error message: got %q, want %q", msg, "invalid user_id")
	}
}

func TestHandleJoin_StorageFailure(t *testing.T) {
	router, repo := newTestRouter(t)
	repo.FailNext = mongoDown{}

	rec := postJSON(t, router, "/join", map[string]string{
		"user_id": primitive.NewObjectID().Hex(),
		"goal_id": primitive.NewObjectID().Hex(),
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if msg := decodeError(t, rec); msg != "internal error" {
		t.Errorf("error message: got %q, want %q (must not leak detail)", msg, "internal error")
	}
}

type mongoDown struct{}

func (mongoDown) Error() string { return "connection refused" }

func TestHandleJoinCode_MovesUserToTeam(t *testing.T) {
	router, repo := newTestRouter(t)
	goal := primitive.NewObjectID()
	user := primitive.NewObjectID()

	repo.Seed(models.Cohort{
		Goal: goal,
		Teams: []models.CohortTeam{
			{Name: "Minnows", InviteCode: "AAAA23456"},
			{Name: "Hurricane", InviteCode: "BBBB23456"},
		},
		MembersMax:           10,
		MemberSlotsRemaining: 10,
	})

	rec := postJSON(t, router, "/join-code", map[string]string{
		"user_id": user.Hex(),
		"goal_id": goal.Hex(),
		"code":    "BBBB23456",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	c := decodeCohort(t, rec)
	if got := c.TeamOf(user); got != 1 {
		t.Errorf("TeamOf(user) = %d, want 1", got)
	}
}

func TestHandleJoinCode_UnknownCode(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/join-code", map[string]string{
		"user_id": primitive.NewObjectID().Hex(),
		"goal_id": primitive.NewObjectID().Hex(),
		"code":    "ZZZZ23456",
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if msg := decodeError(t, rec); msg == "" {
		t.Error("error message is empty")
	}
}

func TestHandleJoinCode_FullCohort(t *testing.T) {
	router, repo := newTestRouter(t)
	goal := primitive.NewObjectID()

	repo.Seed(models.Cohort{
		Goal: goal,
		Teams: []models.CohortTeam{
			{Name: "Minnows", InviteCode: "AAAA23456"},
		},
		MembersMax:           1,
		MemberSlotsRemaining: 0,
		Members: []models.CohortMember{
			{User: primitive.NewObjectID(), TeamIndex: 0},
		},
	})

	rec := postJSON(t, router, "/join-code", map[string]string{
		"user_id": primitive.NewObjectID().Hex(),
		"goal_id": goal.Hex(),
		"code":    "AAAA23456",
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleCreateTeam(t *testing.T) {
	router, _ := newTestRouter(t)
	user := primitive.NewObjectID()
	goal := primitive.NewObjectID()

	rec := postJSON(t, router, "/teams", map[string]string{
		"user_id": user.Hex(),
		"goal_id": goal.Hex(),
		"name":    "  <b>Night</b> Owls  ",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	c := decodeCohort(t, rec)
	if len(c.Teams) != 1 || c.Teams[0].Name != "Night Owls" {
		t.Errorf("teams: got %+v, want one team named %q", c.Teams, "Night Owls")
	}
	if got := c.TeamOf(user); got != 0 {
		t.Errorf("TeamOf(user) = %d, want 0", got)
	}
}

func TestHandleCreateTeam_EmptyName(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/teams", map[string]string{
		"user_id": primitive.NewObjectID().Hex(),
		"goal_id": primitive.NewObjectID().Hex(),
		"name":    "<script>alert(1)</script>",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleLeave(t *testing.T) {
	router, _ := newTestRouter(t)
	user := primitive.NewObjectID()
	goal := primitive.NewObjectID()

	if rec := postJSON(t, router, "/join", map[string]string{
		"user_id": user.Hex(), "goal_id": goal.Hex(),
	}); rec.Code != http.StatusOK {
		t.Fatalf("join: status = %d", rec.Code)
	}

	rec := postJSON(t, router, "/leave", map[string]string{
		"user_id": user.Hex(),
		"goal_id": goal.Hex(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("leave: status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	c := decodeCohort(t, rec)
	if c.MemberIndex(user) != -1 {
		t.Error("user still a member after leave")
	}
	if c.MemberSlotsRemaining != c.MembersMax {
		t.Errorf("member_slots_remaining = %d, want %d", c.MemberSlotsRemaining, c.MembersMax)
	}
}

func TestHandleLeave_NotMember(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postJSON(t, router, "/leave", map[string]string{
		"user_id": primitive.NewObjectID().Hex(),
		"goal_id": primitive.NewObjectID().Hex(),
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleKick_CrossTeamLooksLikeMissing(t *testing.T) {
	router, repo := newTestRouter(t)
	goal := primitive.NewObjectID()
	requester := primitive.NewObjectID()
	target := primitive.NewObjectID()

	repo.Seed(models.Cohort{
		Goal: goal,
		Teams: []models.CohortTeam{
			{Name: "Minnows"}, {Name: "Hurricane"},
		},
		MembersMax:           10,
		MemberSlotsRemaining: 8,
		Members: []models.CohortMember{
			{User: requester, TeamIndex: 0},
			{User: target, TeamIndex: 1},
		},
	})

	rec := postJSON(t, router, "/kick", map[string]string{
		"user_id":   requester.Hex(),
		"goal_id":   goal.Hex(),
		"member_id": target.Hex(),
	})

	// Cross-team target is indistinguishable from an absent one.
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleKick_Teammate(t *testing.T) {
	router, repo := newTestRouter(t)
	goal := primitive.NewObjectID()
	requester := primitive.NewObjectID()
	target := primitive.NewObjectID()

	repo.Seed(models.Cohort{
		Goal:                 goal,
		Teams:                []models.CohortTeam{{Name: "Minnows"}},
		MembersMax:           10,
		MemberSlotsRemaining: 8,
		Members: []models.CohortMember{
			{User: requester, TeamIndex: 0},
			{User: target, TeamIndex: 0},
		},
	})

	rec := postJSON(t, router, "/kick", map[string]string{
		"user_id":   requester.Hex(),
		"goal_id":   goal.Hex(),
		"member_id": target.Hex(),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	c := decodeCohort(t, rec)
	if c.MemberIndex(target) != -1 {
		t.Error("target still a member after kick")
	}
}

func TestHandleInvite_FillsCodes(t *testing.T) {
	router, repo := newTestRouter(t)
	goal := primitive.NewObjectID()
	user := primitive.NewObjectID()

	repo.Seed(models.Cohort{
		Goal: goal,
		Teams: []models.CohortTeam{
			{Name: "Minnows"},
			{Name: "Hurricane", InviteCode: "KEEP23456"},
		},
		MembersMax:           10,
		MemberSlotsRemaining: 9,
		Members: []models.CohortMember{
			{User: user, TeamIndex: 0},
		},
	})

	rec := postJSON(t, router, "/invite", map[string]string{
		"user_id": user.Hex(),
		"goal_id": goal.Hex(),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	c := decodeCohort(t, rec)
	if c.Teams[0].InviteCode == "" {
		t.Error("teams[0].invite_code still empty")
	}
	if c.Teams[1].InviteCode != "KEEP23456" {
		t.Errorf("teams[1].invite_code = %q, want existing code kept", c.Teams[1].InviteCode)
	}
}

func TestJoinEndpointsRateLimited(t *testing.T) {
	repo := testutil.NewCohortRepo()
	svc := cohort.New(repo, nil, zap.NewNop())
	h := cohorts.NewHandler(svc, ratelimit.New(1, 1), zap.NewNop())
	router := cohorts.Routes(h)

	user := primitive.NewObjectID()
	goal := primitive.NewObjectID()
	body := map[string]string{"user_id": user.Hex(), "goal_id": goal.Hex()}

	if rec := postJSON(t, router, "/join", body); rec.Code != http.StatusOK {
		t.Fatalf("first join: status = %d", rec.Code)
	}
	if rec := postJSON(t, router, "/join", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second join: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// A different caller still gets through.
	other := map[string]string{"user_id": primitive.NewObjectID().Hex(), "goal_id": goal.Hex()}
	if rec := postJSON(t, router, "/join", other); rec.Code != http.StatusOK {
		t.Fatalf("other caller: status = %d, want %d", rec.Code, http.StatusOK)
	}
}
