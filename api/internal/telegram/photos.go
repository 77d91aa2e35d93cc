package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var errImageTooLarge = errors.New("the photo is too large")

// acceptPhoto analyzes the largest size Telegram offers for the photo.
func (r *Router) acceptPhoto(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	ph := msg.Photo[len(msg.Photo)-1]

	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	url, err := r.Bot.GetFileDirectURL(ph.FileID)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	img, err := r.download(ctx, url)
	if err != nil {
		r.SendError(cid, err)
		return
	}
	r.send(cid, "Photo received, analyzing…")

	svc := r.Analyzer.With(r.EngManager.Get(cid))
	rec, err := svc.AnalyzeImage(ctx, img)
	r.finish(ctx, cid, rec, err)
}

func (r *Router) download(ctx context.Context, url string) ([]byte, error) {
	hc := r.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download status %d", resp.StatusCode)
	}

	limit := r.MaxImageBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errImageTooLarge
	}
	return b, nil
}
