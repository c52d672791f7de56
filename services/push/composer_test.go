package push

import (
	"testing"

	"github.com/techhire/techhire-api/model"
)

func TestComposeForJob(t *testing.T) {
	tests := []struct {
		name      string
		job       model.Job
		wantTitle string
		wantBody  string
		wantURL   string
		wantTag   string
	}{
		{
			name: "full time",
			job: model.Job{
				ID:       12,
				Type:     model.JobTypeFullTime,
				Company:  "Acme Corp",
				Role:     "Backend Engineer",
				Location: "Bangalore",
			},
			wantTitle: "🎉 New Job: Acme Corp",
			wantBody:  "Backend Engineer - Bangalore",
			wantURL:   "/?job_id=12",
			wantTag:   "job-12",
		},
		{
			name: "internship",
			job: model.Job{
				ID:       7,
				Type:     model.JobTypeInternship,
				Company:  "Acme Corp",
				Role:     "SDE Intern",
				Location: "Remote",
			},
			wantTitle: "🎉 New Internship: Acme Corp",
			wantBody:  "SDE Intern - Remote",
			wantURL:   "/?job_id=7",
			wantTag:   "job-7",
		},
		{
			name: "hackathon",
			job: model.Job{
				ID:       3,
				Type:     model.JobTypeHackathon,
				Company:  "HackFest",
				Role:     "Participant",
				Location: "Online",
			},
			wantTitle: "🎉 New Hackathon: HackFest",
			wantBody:  "Participant - Online",
			wantURL:   "/?job_id=3",
			wantTag:   "job-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeForJob(&tt.job)
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", got.URL, tt.wantURL)
			}
			if got.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", got.Tag, tt.wantTag)
			}
			if got.Icon == "" {
				t.Error("Icon is empty")
			}
		})
	}
}

func TestComposeCustomCategories(t *testing.T) {
	tests := []struct {
		category  Category
		wantTitle string
	}{
		{CategoryInfo, "📢 Results"},
		{CategorySuccess, "✅ Results"},
		{CategoryWarning, "⚠️ Results"},
		{CategoryAlert, "🚨 Results"},
		{Category(""), "📢 Results"},
		{Category("bogus"), "📢 Results"},
	}

	for _, tt := range tests {
		got := ComposeCustom("Results", "Placement results are out", "/results", tt.category)
		if got.Title != tt.wantTitle {
			t.Errorf("ComposeCustom(%q) Title = %q, want %q", tt.category, got.Title, tt.wantTitle)
		}
	}
}

func TestComposeCustomSanitizes(t *testing.T) {
	got := ComposeCustom("  Results <b>out</b>  ", "See <a href='x'>link</a>", "/results", CategoryInfo)
	if got.Title != "📢 Results out" {
		t.Errorf("Title = %q, want markup stripped", got.Title)
	}
	if got.Body != "See link" {
		t.Errorf("Body = %q, want markup stripped", got.Body)
	}
	if got.URL != "/results" {
		t.Errorf("URL = %q", got.URL)
	}
}
