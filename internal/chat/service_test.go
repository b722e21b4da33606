package chat

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/suPer8Hu/mindguide/internal/activity"
	"github.com/suPer8Hu/mindguide/internal/bot"
	"github.com/suPer8Hu/mindguide/internal/common"
	"github.com/suPer8Hu/mindguide/internal/db/dbtest"
	"github.com/suPer8Hu/mindguide/internal/logging"
	"gorm.io/gorm"
)

type recordingResponder struct {
	reply string
	err   error
	last  string
	calls int
}

func (p *recordingResponder) Reply(ctx context.Context, conversationID, userID uint64, content string) (string, error) {
	_ = ctx
	p.calls++
	p.last = content
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	act      *activity.Logger
	hookHits []uint64
}

func newFixture(t *testing.T, responder bot.Responder, withActivityTable bool) *fixture {
	t.Helper()
	models := []any{&Message{}}
	if withActivityTable {
		models = append(models, &activity.Log{})
	}
	db := dbtest.Open(t, models...)

	f := &fixture{db: db}
	f.act = activity.NewLogger(activity.NewRepo(db), logging.Discard())
	f.act.OnRecord(func(ctx context.Context, userID uint64) {
		f.hookHits = append(f.hookHits, userID)
	})
	f.svc = NewService(NewRepo(db), responder, f.act, logging.Discard())
	return f
}

func (f *fixture) messages(t *testing.T) []Message {
	t.Helper()
	var msgs []Message
	if err := f.db.Order("id ASC").Find(&msgs).Error; err != nil {
		t.Fatalf("query messages: %v", err)
	}
	return msgs
}

func TestSendMessage_WritesUserAndBot(t *testing.T) {
	canned, err := bot.NewCanned(bot.DefaultReplies)
	if err != nil {
		t.Fatalf("canned: %v", err)
	}
	f := newFixture(t, canned, true)

	ex, err := f.svc.SendMessage(context.Background(), 1, 1, "  hello ")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if ex.User.Content != "hello" || ex.User.Sender != SenderUser || ex.User.Status != StatusDelivered {
		t.Fatalf("unexpected user msg: %+v", ex.User)
	}
	if !slices.Contains(bot.DefaultReplies, ex.Bot.Content) {
		t.Fatalf("bot reply %q not from canned pool", ex.Bot.Content)
	}
	if ex.Bot.ID == 0 || ex.Bot.CreatedAt.IsZero() || ex.Bot.Status != StatusDelivered {
		t.Fatalf("bot message missing server fields: %+v", ex.Bot)
	}

	msgs := f.messages(t)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != SenderUser || msgs[1].Sender != SenderBot {
		t.Fatalf("unexpected senders: %q %q", msgs[0].Sender, msgs[1].Sender)
	}
	for _, m := range msgs {
		if m.ConversationID != 1 || m.UserID != 1 || m.Status != StatusDelivered {
			t.Fatalf("unexpected message row: %+v", m)
		}
	}

	var logs []activity.Log
	if err := f.db.Find(&logs).Error; err != nil {
		t.Fatalf("query activity: %v", err)
	}
	if len(logs) != 1 || logs[0].ActionType != activity.ActionMessageSent || logs[0].UserID != 1 {
		t.Fatalf("expected one MESSAGE_SENT row, got %+v", logs)
	}
	if len(f.hookHits) != 1 || f.hookHits[0] != 1 {
		t.Fatalf("expected post-commit hook for user 1, got %v", f.hookHits)
	}
}

func TestSendMessage_RejectsBlankContent(t *testing.T) {
	prov := &recordingResponder{reply: "ok"}
	f := newFixture(t, prov, true)

	for _, content := range []string{"", "   ", "\n\t "} {
		_, err := f.svc.SendMessage(context.Background(), 1, 1, content)
		var ve *common.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("content %q: expected validation error, got %v", content, err)
		}
		if ve.Msg != "Content is required" {
			t.Fatalf("unexpected message %q", ve.Msg)
		}
	}

	if n := len(f.messages(t)); n != 0 {
		t.Fatalf("expected no messages, got %d", n)
	}
	var n int64
	f.db.Model(&activity.Log{}).Count(&n)
	if n != 0 || prov.calls != 0 {
		t.Fatalf("expected no side effects, activity=%d responder calls=%d", n, prov.calls)
	}
}

func TestSendMessage_ActivityFailureDoesNotFailSend(t *testing.T) {
	prov := &recordingResponder{reply: "ok"}
	// no activity_logs table: the audit insert fails
	f := newFixture(t, prov, false)

	ex, err := f.svc.SendMessage(context.Background(), 3, 2, "hi")
	if err != nil {
		t.Fatalf("send should succeed without audit table: %v", err)
	}
	if ex.Bot.Content != "ok" {
		t.Fatalf("unexpected bot reply %q", ex.Bot.Content)
	}
	if n := len(f.messages(t)); n != 2 {
		t.Fatalf("expected message pair to commit, got %d rows", n)
	}
	if len(f.hookHits) != 0 {
		t.Fatalf("hooks should not run when the audit write failed")
	}
}

func TestSendMessage_ResponderFailureRollsBack(t *testing.T) {
	prov := &recordingResponder{err: errors.New("boom")}
	f := newFixture(t, prov, true)

	if _, err := f.svc.SendMessage(context.Background(), 1, 1, "hello"); err == nil {
		t.Fatalf("expected error")
	}
	if n := len(f.messages(t)); n != 0 {
		t.Fatalf("expected no orphan user message, got %d rows", n)
	}
	var n int64
	f.db.Model(&activity.Log{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected no activity rows, got %d", n)
	}
}

func TestSendMessage_DefaultsConversation(t *testing.T) {
	f := newFixture(t, &recordingResponder{reply: "ok"}, true)
	ex, err := f.svc.SendMessage(context.Background(), 0, 4, "hey")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if ex.User.ConversationID != DefaultConversationID || ex.Bot.ConversationID != DefaultConversationID {
		t.Fatalf("expected default conversation, got %d/%d", ex.User.ConversationID, ex.Bot.ConversationID)
	}
}

func TestGetHistory_AscendingRoundTrip(t *testing.T) {
	prov := &recordingResponder{reply: "ok"}
	f := newFixture(t, prov, true)
	ctx := context.Background()

	for _, c := range []string{"one", "two", "three"} {
		if _, err := f.svc.SendMessage(ctx, 1, 1, c); err != nil {
			t.Fatalf("send %q: %v", c, err)
		}
	}
	// other user and other conversation must not leak in
	if _, err := f.svc.SendMessage(ctx, 1, 2, "other user"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := f.svc.SendMessage(ctx, 2, 1, "other conversation"); err != nil {
		t.Fatalf("send: %v", err)
	}

	msgs, err := f.svc.GetHistory(ctx, 1, 1, Page{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(msgs) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Fatalf("history not ascending at %d", i)
		}
	}
	if msgs[0].Content != "one" || msgs[4].Content != "three" || msgs[5].Sender != SenderBot {
		t.Fatalf("unexpected order: %q %q %q", msgs[0].Content, msgs[4].Content, msgs[5].Sender)
	}

	// the next send shows up in the next read
	if _, err := f.svc.SendMessage(ctx, 1, 1, "four"); err != nil {
		t.Fatalf("send: %v", err)
	}
	msgs, _ = f.svc.GetHistory(ctx, 1, 1, Page{})
	if len(msgs) != 8 || msgs[6].Content != "four" {
		t.Fatalf("expected new message at the end, got %d msgs", len(msgs))
	}
}

func TestGetHistory_Page(t *testing.T) {
	f := newFixture(t, &recordingResponder{reply: "ok"}, true)
	ctx := context.Background()
	for _, c := range []string{"a", "b", "c"} {
		if _, err := f.svc.SendMessage(ctx, 1, 1, c); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	page, err := f.svc.GetHistory(ctx, 1, 1, Page{Limit: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(page) != 2 || page[0].Content != "c" || page[1].Sender != SenderBot {
		t.Fatalf("unexpected last page: %+v", page)
	}

	older, err := f.svc.GetHistory(ctx, 1, 1, Page{Limit: 2, BeforeID: page[0].ID})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(older) != 2 || older[0].Content != "b" {
		t.Fatalf("unexpected older page: %+v", older)
	}
}

func TestMessageView(t *testing.T) {
	ts := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	v := Message{ID: 42, Content: "hi", Sender: SenderBot, Status: StatusDelivered, CreatedAt: ts}.View()
	if v.ID != "bot-42" {
		t.Fatalf("unexpected display id %q", v.ID)
	}
	if v.Timestamp != "2026-05-01T09:30:00Z" {
		t.Fatalf("unexpected timestamp %q", v.Timestamp)
	}
	if got := Views([]Message{{ID: 1, Sender: SenderUser}}); len(got) != 1 || got[0].ID != "user-1" {
		t.Fatalf("unexpected views: %+v", got)
	}
}
