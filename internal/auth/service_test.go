package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/suPer8Hu/mindguide/internal/activity"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/db/dbtest"
	"github.com/suPer8Hu/mindguide/internal/logging"
	"github.com/suPer8Hu/mindguide/internal/models"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t, &models.User{}, &activity.Log{})
	act := activity.NewLogger(activity.NewRepo(db), logging.Discard())
	return NewService(NewRepo(db), act, testSecret, logging.Discard()), db
}

func countActions(t *testing.T, db *gorm.DB, userID uint64, a activity.Action) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&activity.Log{}).Where("user_id = ? AND action_type = ?", userID, string(a)).Count(&n).Error; err != nil {
		t.Fatalf("count activity: %v", err)
	}
	return n
}

func TestSignup_ThenConflict(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Signup(ctx, "a@x.com", "p", "A")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if sess.User.ID == 0 || sess.User.Email != "a@x.com" || sess.User.Name != "A" {
		t.Fatalf("unexpected user: %+v", sess.User)
	}
	if sess.User.PasswordHash == "p" || !CheckPassword(sess.User.PasswordHash, "p") {
		t.Fatalf("password must be stored hashed")
	}
	if uid, err := ParseJWT(sess.Token, testSecret); err != nil || uid != sess.User.ID {
		t.Fatalf("token: uid=%d err=%v", uid, err)
	}

	_, err = svc.Signup(ctx, " A@X.com ", "other", "B")
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	var n int64
	db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&n)
	if n != 1 {
		t.Fatalf("expected exactly one user row, got %d", n)
	}
	if got := countActions(t, db, sess.User.ID, activity.ActionSignup); got != 1 {
		t.Fatalf("expected one SIGNUP row, got %d", got)
	}
}

func TestSignup_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	cases := [][3]string{
		{"", "p", "A"},
		{"a@x.com", "", "A"},
		{"a@x.com", "p", "  "},
		{"a@x.com", strings.Repeat("p", 80), "A"},
	}
	for _, c := range cases {
		_, err := svc.Signup(context.Background(), c[0], c[1], c[2])
		var ve *common.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%v: expected validation error, got %v", c, err)
		}
	}

	// exactly at the bcrypt limit is fine
	if _, err := svc.Signup(context.Background(), "max@x.com", strings.Repeat("p", 72), "M"); err != nil {
		t.Fatalf("72 byte password rejected: %v", err)
	}
}

func TestLogin_VerifiesPassword(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "b@x.com", "secret", "B")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Login(ctx, "b@x.com", "wrong"); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if got := countActions(t, db, created.User.ID, activity.ActionLogin); got != 0 {
		t.Fatalf("failed login must not be recorded, got %d", got)
	}

	sess, err := svc.Login(ctx, "B@x.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.User.ID != created.User.ID || sess.Token == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if got := countActions(t, db, created.User.ID, activity.ActionLogin); got != 1 {
		t.Fatalf("expected one LOGIN row, got %d", got)
	}
}

func TestLogin_UnknownAndMissing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "nobody@x.com", "p"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err := svc.Login(ctx, "", "p")
	var ve *common.ValidationError
	if !errors.As(err, &ve) || ve.Msg != "Email is required" {
		t.Fatalf("expected email validation error, got %v", err)
	}
}

func TestLogout_RecordsActivity(t *testing.T) {
	svc, db := newTestService(t)
	if err := svc.Logout(context.Background(), 5); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if got := countActions(t, db, 5, activity.ActionLogout); got != 1 {
		t.Fatalf("expected one LOGOUT row, got %d", got)
	}
}

func TestLogout_SurfacesWriteFailure(t *testing.T) {
	svc, db := newTestService(t)
	if err := db.Exec("DROP TABLE activity_logs").Error; err != nil {
		t.Fatalf("drop: %v", err)
	}
	err := svc.Logout(context.Background(), 5)
	if err == nil {
		t.Fatalf("expected error")
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		t.Fatalf("write failure must not look like a validation error")
	}
}

func TestParseJWT_Rejects(t *testing.T) {
	tok, err := SignJWT(3, testSecret, tokenTTL)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseJWT(tok, "other-secret"); err == nil {
		t.Fatalf("expected signature error")
	}
	expired, _ := SignJWT(3, testSecret, -tokenTTL)
	if _, err := ParseJWT(expired, testSecret); err == nil {
		t.Fatalf("expected expiry error")
	}
	if _, err := ParseJWT("garbage", testSecret); err == nil {
		t.Fatalf("expected parse error")
	}
}
