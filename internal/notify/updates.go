package notify

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// Update is one incoming Bot API update; only the message fields the agent
// cares about are decoded.
type Update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// Updates long-polls getUpdates starting after offset. The Bot API holds the
// request open up to the given timeout (seconds) when no updates are pending,
// so the caller's loop does not spin. The window is clamped below the HTTP
// client timeout.
func (t *Telegram) Updates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	if timeoutSec <= 0 || timeoutSec > 10 {
		timeoutSec = 10
	}
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(timeoutSec))
	params.Set("allowed_updates", `["message"]`)
	raw, err := t.call(ctx, "getUpdates", params)
	if err != nil {
		return nil, err
	}
	var ups []Update
	if err := json.Unmarshal(raw, &ups); err != nil {
		return nil, err
	}
	return ups, nil
}
