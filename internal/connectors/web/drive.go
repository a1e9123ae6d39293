package web

import (
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var (
	driveFilePath = regexp.MustCompile(`^/file/d/([^/]+)`)
	formTag       = regexp.MustCompile(`<form[^>]*id="download-form"[^>]*>`)
	formAction    = regexp.MustCompile(`action="([^"]+)"`)
	hiddenInput   = regexp.MustCompile(`<input[^>]*type="hidden"[^>]*>`)
	inputName     = regexp.MustCompile(`name="([^"]*)"`)
	inputValue    = regexp.MustCompile(`value="([^"]*)"`)
	downloadHref  = regexp.MustCompile(`href="(/uc\?export=download[^"]*)"`)
	confirmToken  = regexp.MustCompile(`confirm=([0-9A-Za-z_-]+)`)
)

// NormaliseDriveURL rewrites Drive share links ("/file/d/<id>/view",
// "/open?id=<id>", "/uc?id=<id>") into direct-download URLs. Other URLs are
// returned unchanged.
func NormaliseDriveURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Host != "drive.google.com" && u.Host != "docs.google.com" {
		return raw
	}

	id := u.Query().Get("id")
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		id = m[1]
	}
	if id == "" || (u.Path != "/uc" && u.Path != "/open" && !driveFilePath.MatchString(u.Path)) {
		return raw
	}

	q := url.Values{}
	q.Set("export", "download")
	q.Set("id", id)
	return (&url.URL{Scheme: "https", Host: "drive.google.com", Path: "/uc", RawQuery: q.Encode()}).String()
}

// confirmURL finds the next URL to request after a Drive confirmation page.
func confirmURL(base *url.URL, page []byte, cookies []*http.Cookie) (string, bool) {
	for _, c := range cookies {
		if strings.HasPrefix(c.Name, "download_warning") {
			return withConfirm(base, c.Value), true
		}
	}

	body := string(page)

	if tag := formTag.FindString(body); tag != "" {
		if m := formAction.FindStringSubmatch(tag); m != nil {
			action, err := base.Parse(html.UnescapeString(m[1]))
			if err == nil {
				q := action.Query()
				for _, input := range hiddenInput.FindAllString(body, -1) {
					name := inputName.FindStringSubmatch(input)
					if name == nil || name[1] == "" {
						continue
					}
					value := ""
					if v := inputValue.FindStringSubmatch(input); v != nil {
						value = html.UnescapeString(v[1])
					}
					q.Set(name[1], value)
				}
				action.RawQuery = q.Encode()
				return action.String(), true
			}
		}
	}

	if m := downloadHref.FindStringSubmatch(body); m != nil {
		if next, err := base.Parse(html.UnescapeString(m[1])); err == nil {
			return next.String(), true
		}
	}

	if m := confirmToken.FindStringSubmatch(body); m != nil {
		return withConfirm(base, m[1]), true
	}

	return "", false
}

func withConfirm(base *url.URL, token string) string {
	next := *base
	q := next.Query()
	q.Set("confirm", token)
	next.RawQuery = q.Encode()
	return next.String()
}
