package crawl

import "fmt"

// FormatProgress renders a progress event as a single status line.
func FormatProgress(p Progress) string {
	prefix := fmt.Sprintf("[%d/%d]", p.Position, p.Total)
	url := TruncateURL(p.URL, 60)
	switch p.Type {
	case ProgressSkipped:
		return fmt.Sprintf("%s skip %s (already saved)", prefix, url)
	case ProgressSaved:
		return fmt.Sprintf("%s saved %s (%s, %d images)", prefix, url, FormatBytes(p.Bytes), p.Images)
	case ProgressExtracted:
		return fmt.Sprintf("%s extracted %s (%s, %d images)", prefix, url, FormatBytes(p.Bytes), p.Images)
	case ProgressFailed:
		return fmt.Sprintf("%s failed %s: %v", prefix, url, p.Err)
	default:
		return fmt.Sprintf("%s %s", prefix, url)
	}
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
