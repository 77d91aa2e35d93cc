package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"nutrition-tracker/api/internal/analyzer"
	"nutrition-tracker/api/internal/llm"
	"nutrition-tracker/api/internal/nutrition"
	"nutrition-tracker/api/internal/store"
	"nutrition-tracker/api/internal/util"
)

// BotAPI is the part of *tgbotapi.BotAPI the router uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot        BotAPI
	EngManager *llm.Manager
	Analyzer   *analyzer.Service
	Repo       store.Repository
	Log        *zap.Logger

	MaxImageBytes int64
	Timeout       time.Duration
	HTTPClient    *http.Client
}

const recentLogs = 5

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Router) timeout() time.Duration {
	if r.Timeout <= 0 {
		return 180 * time.Second
	}
	return r.Timeout
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, *upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	switch {
	case msg.IsCommand():
		r.HandleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		r.acceptPhoto(ctx, msg)
	case strings.TrimSpace(msg.Text) != "":
		r.acceptText(ctx, msg.Chat.ID, msg.Text)
	}
}

func (r *Router) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		r.send(cid, "Describe a meal or send a photo of it and I will estimate its nutrition.\n"+
			"Commands: /logs, /engine")
	case "logs":
		r.sendRecent(ctx, cid)
	case "engine":
		r.handleEngineCommand(cid, msg.CommandArguments())
	default:
		r.send(cid, "Unknown command")
	}
}

// handleEngineCommand switches the collaborator for one chat:
//
//	/engine
//	/engine openai
//	/engine gemini
func (r *Router) handleEngineCommand(chatID int64, args string) {
	name := strings.ToLower(strings.TrimSpace(args))
	if name == "" {
		cur := r.EngManager.Get(chatID)
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Current engine: %s (%s)", cur.Name(), cur.GetModel()))
		m.ReplyMarkup = engineKeyboard(r.EngManager.Registry().Names())
		_, _ = r.Bot.Send(m)
		return
	}
	r.switchEngine(chatID, name)
}

func (r *Router) switchEngine(chatID int64, name string) {
	eng, err := r.EngManager.Set(chatID, name)
	if err != nil {
		r.send(chatID, "Unknown engine. Available: "+strings.Join(r.EngManager.Registry().Names(), " | "))
		return
	}
	r.send(chatID, fmt.Sprintf("✅ Engine: %s (%s)", eng.Name(), eng.GetModel()))
}

func (r *Router) handleCallback(_ context.Context, cb tgbotapi.CallbackQuery) {
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, ""))
	if cb.Message == nil {
		return
	}
	if name, ok := strings.CutPrefix(cb.Data, enginePrefix); ok {
		cid := cb.Message.Chat.ID
		edit := tgbotapi.NewEditMessageReplyMarkup(cid, cb.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
			InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
		})
		_, _ = r.Bot.Send(edit)
		r.switchEngine(cid, name)
	}
}

func (r *Router) acceptText(ctx context.Context, chatID int64, text string) {
	r.send(chatID, "Analyzing…")
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	svc := r.Analyzer.With(r.EngManager.Get(chatID))
	rec, err := svc.AnalyzeFood(ctx, text)
	r.finish(ctx, chatID, rec, err)
}

// finish stores a successful analysis and reports the outcome to the chat.
func (r *Router) finish(ctx context.Context, chatID int64, rec nutrition.Record, err error) {
	log := r.logger().With(zap.Int64("chat_id", chatID))
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		r.SendError(chatID, err)
		return
	}
	saved, err := r.Repo.Create(ctx, rec)
	if err != nil {
		log.Error("save failed", zap.Error(err))
		r.SendError(chatID, err)
		return
	}
	log.Info("food logged", zap.Uint("id", saved.ID))
	r.send(chatID, FormatRecord(saved))
}

func (r *Router) sendRecent(ctx context.Context, chatID int64) {
	recs, err := r.Repo.List(ctx, 0, recentLogs)
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	r.send(chatID, FormatList(recs))
}

func (r *Router) send(chatID int64, text string) {
	if len(text) > maxMessageLen {
		text = util.CutUTF8(text, maxMessageLen) + "…"
	}
	_, _ = r.Bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) SendError(chatID int64, err error) {
	r.send(chatID, "⚠️ "+userMessage(err))
}

func userMessage(err error) string {
	var (
		parseErr    *nutrition.AnalysisParseError
		upstreamErr *analyzer.UpstreamError
	)
	switch {
	case errors.As(err, &parseErr):
		return "Could not read the nutrition estimate (" + parseErr.Field + "). Try describing the meal differently."
	case errors.Is(err, analyzer.ErrEmptyImage), errors.Is(err, analyzer.ErrUnsupportedImage):
		return "That photo could not be used: " + err.Error()
	case errors.Is(err, errImageTooLarge):
		return err.Error()
	case errors.As(err, &upstreamErr):
		return "The " + upstreamErr.Provider + " engine failed. Try again or switch with /engine."
	case errors.Is(err, context.DeadlineExceeded):
		return "The analysis timed out."
	default:
		return "Something went wrong: " + err.Error()
	}
}
