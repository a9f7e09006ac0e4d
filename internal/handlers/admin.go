package handlers

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"sort"
	"strconv"

	"reddit-ideas/internal/models"
	"reddit-ideas/internal/services"
	"reddit-ideas/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const adminPageSize = 20

// AdminHandler handles the admin interface
type AdminHandler struct {
	db            *gorm.DB
	status        *services.StatusService
	workerService *worker.WorkerService
	password      string
}

// NewAdminHandler creates a new admin handler. An empty password leaves the
// pages open, which is only meant for local development.
func NewAdminHandler(db *gorm.DB, status *services.StatusService, workerService *worker.WorkerService, password string) *AdminHandler {
	return &AdminHandler{
		db:            db,
		status:        status,
		workerService: workerService,
		password:      password,
	}
}

// AdminAuth middleware for basic password protection
func (h *AdminHandler) AdminAuth() gin.HandlerFunc {
	if h.password == "" {
		log.Println("⚠️  ADMIN_PASSWORD not set, admin pages are unprotected")
		return func(c *gin.Context) { c.Next() }
	}
	return gin.BasicAuth(gin.Accounts{
		"admin": h.password,
	})
}

// ServeAdminDashboard serves the main admin dashboard
func (h *AdminHandler) ServeAdminDashboard(c *gin.Context) {
	snapshot, err := h.status.Snapshot(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load status: %v", err)
		return
	}

	var recent []models.Idea
	h.db.WithContext(c.Request.Context()).
		Order("created_at DESC").
		Limit(5).
		Find(&recent)

	page := h.generateAdminLayout("Dashboard", "/admin") +
		h.generateDashboardHTML(snapshot, recent) +
		h.generateAdminFooter()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, page)
}

// ServeIdeasPage serves the ideas listing, best score first
func (h *AdminHandler) ServeIdeasPage(c *gin.Context) {
	page, offset := pageParams(c)

	var ideas []models.Idea
	var total int64

	db := h.db.WithContext(c.Request.Context())
	db.Model(&models.Idea{}).Count(&total)
	db.Preload("Sources").
		Order("overall_score DESC").
		Order("created_at DESC").
		Limit(adminPageSize).
		Offset(offset).
		Find(&ideas)

	body := h.generateAdminLayout("Ideas", "/admin/ideas") +
		h.generateIdeasTableHTML(ideas, total) +
		h.generatePagination(page, adminPageSize, total, "/admin/ideas") +
		h.generateAdminFooter()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, body)
}

// ServeSubscribersPage serves the email subscription listing
func (h *AdminHandler) ServeSubscribersPage(c *gin.Context) {
	page, offset := pageParams(c)

	var subs []models.EmailSubscription
	var total int64

	db := h.db.WithContext(c.Request.Context())
	db.Model(&models.EmailSubscription{}).Count(&total)
	db.Order("created_at DESC").
		Limit(adminPageSize).
		Offset(offset).
		Find(&subs)

	body := h.generateAdminLayout("Subscribers", "/admin/subscribers") +
		h.generateSubscribersTableHTML(subs, total) +
		h.generatePagination(page, adminPageSize, total, "/admin/subscribers") +
		h.generateAdminFooter()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, body)
}

func pageParams(c *gin.Context) (page, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * adminPageSize
}

// generateDashboardHTML renders the stat cards, job state and recent ideas
func (h *AdminHandler) generateDashboardHTML(s *services.StatusSnapshot, recent []models.Idea) string {
	out := `
        <div class="stats-grid">
            ` + statCard("Ideas", s.Ideas.Total) + `
            ` + statCard("New ideas", s.Ideas.New) + `
            ` + statCard("Last 24h", s.Ideas.Recent24h) + `
            ` + statCard("Average score", int64(s.Ideas.AverageScore)) + `
            ` + statCard("Posts processed", s.Posts.Processed) + `
            ` + statCard("Posts pending", s.Posts.Pending) + `
            ` + statCard("Active subscribers", s.Subscriptions.Active) + `
            ` + statCard("Unsubscribed", s.Subscriptions.Inactive) + `
        </div>

        <div class="panel">
            <h2>Jobs</h2>
            <table>
                <tr><th>Job</th><th>Last run</th><th>Duration</th><th>Result</th></tr>`

	for _, name := range []string{worker.JobGenerateIdeas, worker.JobPersonalized, worker.JobNewsletter} {
		run, ok := h.workerService.LastRun(name)
		if !ok {
			out += `
                <tr><td>` + name + `</td><td colspan="3" class="muted">never run</td></tr>`
			continue
		}
		result := `<span class="ok">ok</span>`
		if run.Error != "" {
			result = `<span class="fail">` + html.EscapeString(run.Error) + `</span>`
		}
		out += `
                <tr><td>` + name + `</td><td>` + run.FinishedAt.Format("2006-01-02 15:04:05") + `</td><td>` +
			strconv.FormatInt(run.Duration, 10) + `ms</td><td>` + result + `</td></tr>`
	}

	out += `
            </table>
        </div>

        <div class="panel">
            <h2>Ideas by topic</h2>
            <table>
                <tr><th>Topic</th><th>Ideas</th></tr>` + countRows(s.Ideas.ByTopic) + `
            </table>
        </div>

        <div class="panel">
            <h2>Posts by subreddit</h2>
            <table>
                <tr><th>Subreddit</th><th>Processed</th></tr>` + countRows(s.Posts.BySubreddit) + `
            </table>
        </div>

        <div class="panel">
            <h2>Recent ideas</h2>`

	if len(recent) == 0 {
		out += `
            <p class="muted">No ideas yet. Trigger the generate-ideas job to create some.</p>`
	}
	for _, idea := range recent {
		out += `
            <div class="recent-idea">
                <strong>` + html.EscapeString(idea.Name) + `</strong>
                <span class="badge">` + string(idea.Topic) + `</span>
                <span class="score">` + strconv.Itoa(idea.OverallScore) + `</span>
            </div>`
	}

	out += `
        </div>`
	return out
}

func (h *AdminHandler) generateIdeasTableHTML(ideas []models.Idea, total int64) string {
	out := `
        <div class="panel">
            <h2>Ideas (` + strconv.FormatInt(total, 10) + `)</h2>
            <table>
                <tr><th>Name</th><th>Topic</th><th>Score</th><th>Source</th><th>Created</th></tr>`

	for _, idea := range ideas {
		source := ""
		if len(idea.Sources) > 0 {
			source = `<a href="` + html.EscapeString(idea.Sources[0].PostURL) + `">r/` + html.EscapeString(idea.Sources[0].Subreddit) + `</a>`
		}
		out += `
                <tr><td>` + html.EscapeString(idea.Name) + `</td><td>` + string(idea.Topic) + `</td><td>` +
			strconv.Itoa(idea.OverallScore) + `</td><td>` + source + `</td><td>` +
			idea.CreatedAt.Format("2006-01-02") + `</td></tr>`
	}

	return out + `
            </table>
        </div>`
}

func (h *AdminHandler) generateSubscribersTableHTML(subs []models.EmailSubscription, total int64) string {
	out := `
        <div class="panel">
            <h2>Subscribers (` + strconv.FormatInt(total, 10) + `)</h2>
            <table>
                <tr><th>Email</th><th>Topics</th><th>Frequency</th><th>Status</th><th>Since</th></tr>`

	for _, sub := range subs {
		topics := "all"
		if len(sub.Topics) > 0 {
			topics = ""
			for i, t := range sub.Topics {
				if i > 0 {
					topics += ", "
				}
				topics += string(t)
			}
		}
		state := `<span class="ok">active</span>`
		if !sub.IsActive {
			state = `<span class="muted">unsubscribed</span>`
		}
		out += `
                <tr><td>` + html.EscapeString(sub.Email) + `</td><td>` + topics + `</td><td>` +
			string(sub.Frequency) + `</td><td>` + state + `</td><td>` +
			sub.CreatedAt.Format("2006-01-02") + `</td></tr>`
	}

	return out + `
            </table>
        </div>`
}

func statCard(label string, value int64) string {
	return `<div class="stat-card"><div class="stat-value">` + strconv.FormatInt(value, 10) +
		`</div><div class="stat-label">` + label + `</div></div>`
}

// countRows renders map entries sorted by count, then key
func countRows(counts map[string]int64) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	out := ""
	for _, k := range keys {
		out += fmt.Sprintf(`
                <tr><td>%s</td><td>%d</td></tr>`, html.EscapeString(k), counts[k])
	}
	return out
}

// generateAdminLayout generates the common admin layout
func (h *AdminHandler) generateAdminLayout(title, activePath string) string {
	return `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + title + ` - Reddit Ideas Admin</title>
    <style>
        body { font-family: Inter, -apple-system, BlinkMacSystemFont, sans-serif; margin: 0; background: #f8fafc; color: #1e293b; }
        .admin-nav { background: #1e293b; padding: 1rem 0; margin-bottom: 2rem; }
        .admin-nav .nav-container { max-width: 1200px; margin: 0 auto; padding: 0 1rem; display: flex; align-items: center; gap: 2rem; }
        .admin-nav .nav-brand { color: #f1f5f9; font-weight: 700; font-size: 1.25rem; }
        .admin-nav .nav-links { display: flex; gap: 1rem; }
        .admin-nav .nav-link { color: #cbd5e1; text-decoration: none; padding: 0.5rem 1rem; border-radius: 6px; }
        .admin-nav .nav-link:hover, .admin-nav .nav-link.active { background: #ff4500; color: white; }
        .main-content { max-width: 1200px; margin: 0 auto; padding: 0 1rem 3rem; }
        .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 1rem; margin-bottom: 2rem; }
        .stat-card { background: white; border: 1px solid #e2e8f0; border-radius: 8px; padding: 1.25rem; }
        .stat-value { font-size: 1.75rem; font-weight: 700; }
        .stat-label { color: #64748b; font-size: 0.875rem; }
        .panel { background: white; border: 1px solid #e2e8f0; border-radius: 8px; padding: 1.25rem; margin-bottom: 1.5rem; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 0.5rem; border-bottom: 1px solid #f1f5f9; }
        .muted { color: #94a3b8; }
        .ok { color: #16a34a; }
        .fail { color: #dc2626; }
        .badge { background: #fff1eb; color: #ff4500; border-radius: 12px; padding: 2px 8px; font-size: 12px; }
        .score { float: right; font-weight: 700; }
        .recent-idea { padding: 0.5rem 0; border-bottom: 1px solid #f1f5f9; }
    </style>
</head>
<body>
    <nav class="admin-nav">
        <div class="nav-container">
            <div class="nav-brand">Reddit Ideas Admin</div>
            <div class="nav-links">
                <a href="/admin" class="nav-link` + h.getActiveClass("/admin", activePath) + `">Dashboard</a>
                <a href="/admin/ideas" class="nav-link` + h.getActiveClass("/admin/ideas", activePath) + `">Ideas</a>
                <a href="/admin/subscribers" class="nav-link` + h.getActiveClass("/admin/subscribers", activePath) + `">Subscribers</a>
                <a href="/" class="nav-link">Back to Site</a>
            </div>
        </div>
    </nav>

    <div class="main-content">`
}

func (h *AdminHandler) generateAdminFooter() string {
	return `
    </div>
</body>
</html>`
}

// getActiveClass returns " active" if the path matches
func (h *AdminHandler) getActiveClass(path, activePath string) string {
	if path == activePath {
		return " active"
	}
	return ""
}

// generatePagination generates pagination controls
func (h *AdminHandler) generatePagination(currentPage, limit int, total int64, basePath string) string {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	if totalPages <= 1 {
		return ""
	}

	return `
    <div style="display: flex; justify-content: center; gap: 0.5rem; margin-top: 2rem;">
        ` + h.getPaginationButton(basePath, currentPage-1, "Previous", currentPage <= 1) + `
        <span style="padding: 0.5rem 1rem; background: #ff4500; color: white; border-radius: 6px;">
            Page ` + strconv.Itoa(currentPage) + ` of ` + strconv.Itoa(totalPages) + `
        </span>
        ` + h.getPaginationButton(basePath, currentPage+1, "Next", currentPage >= totalPages) + `
    </div>`
}

// getPaginationButton generates a pagination button
func (h *AdminHandler) getPaginationButton(basePath string, page int, text string, disabled bool) string {
	if disabled {
		return `<span style="padding: 0.5rem 1rem; background: #f1f5f9; color: #94a3b8; border-radius: 6px;">` + text + `</span>`
	}
	return `<a href="` + basePath + `?page=` + strconv.Itoa(page) + `" style="padding: 0.5rem 1rem; background: white; color: #ff4500; border: 1px solid #e2e8f0; border-radius: 6px; text-decoration: none;">` + text + `</a>`
}
