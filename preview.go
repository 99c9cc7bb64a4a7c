package icongen

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"path/filepath"

	"github.com/k1LoW/errors"
)

var previewTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>icongen preview</title>
<style>
body { font-family: sans-serif; background: #f4f4f4; }
figure { display: inline-block; margin: 12px; text-align: center; vertical-align: bottom; }
figcaption { font-size: 12px; color: #555; }
</style>
</head>
<body>
<h1>icongen preview ({{ .Mode }})</h1>
{{- range .Icons }}
<figure><img src="{{ .URL }}" width="{{ .Size }}" height="{{ .Size }}"><figcaption>{{ .Path }}<br>{{ .Size }}x{{ .Size }}</figcaption></figure>
{{- end }}
{{- if .ICO }}
<figure><img src="{{ .ICO.URL }}"><figcaption>{{ .ICO.Path }}</figcaption></figure>
{{- end }}
</body>
</html>
`))

type previewIcon struct {
	Path string
	Size int
	URL  template.URL
}

func fileURL(p string) (template.URL, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return template.URL(u.String()), nil
}

// RenderPreview writes an HTML page showing the selected targets as they are on disk.
func (g *Generator) RenderPreview(w io.Writer) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	targets, err := g.Targets()
	if err != nil {
		return err
	}
	data := struct {
		Mode  Mode
		Icons []previewIcon
		ICO   *previewIcon
	}{Mode: g.mode}
	for _, t := range targets {
		u, err := fileURL(g.outPath(t.Path))
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", t.Path, err)
		}
		data.Icons = append(data.Icons, previewIcon{Path: t.Path, Size: t.Size, URL: u})
	}
	if g.icoPath != "" {
		u, err := fileURL(g.outPath(g.icoPath))
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", g.icoPath, err)
		}
		data.ICO = &previewIcon{Path: g.icoPath, URL: u}
	}
	return previewTmpl.Execute(w, data)
}
