package digest

const digestTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Heading}}</title>
</head>
<body style="margin: 0; padding: 0; background: #ffffff;">
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #ffffff;">
    <div style="padding: 40px 20px; text-align: center; border-bottom: 1px solid #e5e7eb;">
        <h1 style="color: #111827; margin: 0; font-size: 28px;">{{.Heading}}</h1>
        <p style="color: #6b7280; margin: 8px 0 0 0; font-size: 16px;">{{.Subheading}}</p>
    </div>

    <div style="padding: 20px;">
        <p style="color: #374151; margin: 0 0 20px 0;">Here are the latest product ideas that match your interests:</p>

        {{range .Ideas}}
        <div class="idea" style="border: 1px solid #e5e7eb; border-radius: 8px; padding: 20px; margin: 16px 0; background: #f9fafb;">
            <h3 class="idea-name" style="margin: 0; color: #111827; font-size: 18px;">{{.Name}}</h3>
            <div style="font-size: 12px; color: #6b7280;">Score</div>
            <div class="idea-score" style="font-size: 24px; font-weight: bold; color: #111827;">{{.Score}}</div>
            <p style="margin: 8px 0; color: #374151; font-size: 14px;">{{.Pitch}}</p>
            <div style="margin: 12px 0;">
                <div style="font-size: 12px; font-weight: 600; color: #1f2937; margin-bottom: 4px;">Key insight</div>
                <p style="margin: 0; color: #4b5563; font-size: 13px;">{{.PainPoint}}</p>
            </div>
            <div style="margin-top: 12px;">
                {{range .Sources}}<a class="idea-source" href="{{.URL}}" style="display: inline-block; padding: 4px 12px; background: #f3f4f6; color: #374151; text-decoration: none; border-radius: 16px; font-size: 12px; border: 1px solid #d1d5db;">{{.Label}}</a> {{end}}
                <span class="idea-topic" style="display: inline-block; padding: 4px 12px; background: #e5e7eb; color: #374151; border-radius: 16px; font-size: 12px; text-transform: capitalize;">{{.Topic}}</span>
            </div>
        </div>
        {{end}}

        <div style="margin: 30px 0; padding: 20px; background: #f9fafb; border-radius: 8px; text-align: center;">
            <p style="margin: 0 0 16px 0; color: #374151; font-size: 14px;">Want to see more ideas? Visit our feed for real-time updates.</p>
            <a class="feed-link" href="{{.FeedURL}}" style="display: inline-block; background: #111827; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: 600;">View All Ideas</a>
        </div>
    </div>

    <div style="padding: 20px; border-top: 1px solid #e5e7eb; text-align: center; background: #f9fafb;">
        <p style="margin: 0 0 12px 0; color: #6b7280; font-size: 12px;">You're receiving this because you subscribed to Reddit Ideas.</p>
        <a class="unsubscribe-link" href="{{.UnsubscribeURL}}" style="color: #dc2626; text-decoration: none; font-size: 12px;">Unsubscribe</a>
    </div>
</div>
</body>
</html>`

const welcomeTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Reddit Ideas</title>
</head>
<body>
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    {{if .Returning}}
    <h1 style="color: #333;">Welcome back!</h1>
    <p>Great to have you back! Your email subscription has been reactivated.</p>
    {{else}}
    <h1 style="color: #333;">Welcome to Reddit Ideas!</h1>
    <p>You're now subscribed to receive fresh product ideas sourced from trending Reddit discussions.</p>
    {{end}}

    <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <h3>{{if .Returning}}Your Updated Preferences:{{else}}Your Preferences:{{end}}</h3>
        <p><strong>Topics:</strong> <span class="topics">{{.Topics}}</span></p>
        <p><strong>Frequency:</strong> <span class="frequency">{{.Frequency}}</span></p>
    </div>

    {{if .Returning}}
    <p>You'll start receiving fresh product ideas again based on your preferences.</p>
    <div style="margin: 30px 0;">
        <a class="feed-link" href="{{.FeedURL}}" style="background: #111827; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: 600;">View Latest Ideas</a>
    </div>
    {{else}}
    <p>We'll send you curated product ideas based on your preferences. You can update your subscription or unsubscribe at any time.</p>
    {{end}}

    <div style="margin: 30px 0;">
        <a class="unsubscribe-link" href="{{.UnsubscribeURL}}" style="background: #dc3545; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Unsubscribe</a>
    </div>

    <p style="color: #666; font-size: 12px;">This email was sent to {{.Email}}. If you didn't {{if .Returning}}reactivate your subscription{{else}}subscribe{{end}}, you can safely ignore this email.</p>
</div>
</body>
</html>`
