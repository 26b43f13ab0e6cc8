package prebuild

import (
	"bytes"
	"html/template"
)

var figureTemplate = template.Must(template.New("figure").Parse(`<figure class="{{.Class}}">
<a href="{{.URL}}"><img src="{{.URL}}" alt="{{.Alt}}"></a>
</figure>
`))

type figure struct {
	Class string
	URL   string
	Alt   string
}

func (f figure) html() ([]byte, error) {
	var buff bytes.Buffer

	if err := figureTemplate.Execute(&buff, f); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// URL returns the site-absolute address of an artifact published under outputDir.
func URL(outputDir, key, ext string) string {
	return "/" + outputDir + "/" + key + "." + ext
}
