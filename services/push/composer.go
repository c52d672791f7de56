package push

import (
	"fmt"

	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/utils/validation"
)

// Payload is the JSON message the service worker renders as a notification.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
	Tag   string `json:"tag,omitempty"`
}

const (
	defaultIcon    = "/static/images/logo.png"
	maxTitleLength = 200
	maxBodyLength  = 500
)

// Category selects the glyph prepended to custom broadcast titles.
type Category string

const (
	CategoryInfo    Category = "info"
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryAlert   Category = "alert"
)

func (cat Category) glyph() string {
	switch cat {
	case CategorySuccess:
		return "✅"
	case CategoryWarning:
		return "⚠️"
	case CategoryAlert:
		return "🚨"
	default:
		return "📢"
	}
}

// ComposeForJob builds the notification payload for a freshly posted or
// edited listing. The tag is derived from the job ID so the client replaces
// an earlier notification for the same listing instead of stacking them.
func ComposeForJob(job *model.Job) Payload {
	return Payload{
		Title: fmt.Sprintf("🎉 New %s: %s", job.Type.Label(), job.Company),
		Body:  fmt.Sprintf("%s - %s", job.Role, job.Location),
		Icon:  defaultIcon,
		URL:   fmt.Sprintf("/?job_id=%d", job.ID),
		Tag:   fmt.Sprintf("job-%d", job.ID),
	}
}

// ComposeCustom builds an admin-authored broadcast payload. Title and
// message go through the same sanitization and length rules as listing
// fields; the category only picks the title glyph.
func ComposeCustom(title, message, url string, category Category) Payload {
	title = validation.Truncate(validation.SanitizeString(title), maxTitleLength)
	message = validation.Truncate(validation.SanitizeString(message), maxBodyLength)

	return Payload{
		Title: category.glyph() + " " + title,
		Body:  message,
		Icon:  defaultIcon,
		URL:   url,
	}
}
