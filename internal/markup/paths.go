package markup

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// rewrittenAttrs lists the attributes that may point at files next to the
// Markdown source, per element.
var rewrittenAttrs = map[string]string{
	"img":  "src",
	"a":    "href",
	"link": "href",
}

// ResolveRelativePaths rewrites relative img, a and link references in a
// rendered document to file:// URLs under baseDir. A rendered page lives in
// the temp dir, so wkhtmltopdf would otherwise resolve them there.
// References that leave baseDir are left untouched.
func ResolveRelativePaths(document, baseDir string) (string, error) {
	if baseDir == "" {
		return document, nil
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", ErrConversion, baseDir, err)
	}

	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("%w: parsing rendered HTML: %v", ErrConversion, err)
	}

	walk(doc, func(n *html.Node) {
		key, ok := rewrittenAttrs[n.Data]
		if !ok {
			return
		}
		for i, attr := range n.Attr {
			if attr.Key != key || !isLocalReference(attr.Val) {
				continue
			}
			if resolved, ok := resolveUnder(absBase, attr.Val); ok {
				n.Attr[i].Val = resolved
			}
		}
	})

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("%w: rendering HTML: %v", ErrConversion, err)
	}
	return buf.String(), nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// isLocalReference reports whether ref is a relative path: not empty, not
// an anchor, not absolute, and without a scheme.
func isLocalReference(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == ""
}

// resolveUnder joins ref to base and returns it as a file:// URL, keeping
// any #fragment. It refuses paths that escape base.
func resolveUnder(base, ref string) (string, bool) {
	path, fragment, _ := strings.Cut(ref, "#")
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}

	abs := filepath.Join(base, filepath.FromSlash(path))
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), Fragment: fragment}
	if !strings.HasPrefix(u.Path, "/") {
		// Windows drive paths: file:///C:/docs
		u.Path = "/" + u.Path
	}
	return u.String(), true
}
