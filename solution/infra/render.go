package infra

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle é o tema do destaque (fundo escuro).
const DefaultStyle = "monokai"

// ChromaRenderer gera HTML com estilos inline.
//
// O formatter e o estilo são resolvidos uma única vez, na primeira chamada;
// lexers são cacheados por linguagem. Seguro para uso concorrente.
type ChromaRenderer struct {
	styleName string

	once      sync.Once
	style     *chroma.Style
	formatter *html.Formatter

	mu     sync.Mutex
	lexers map[string]chroma.Lexer
}

func NewChromaRenderer(styleName string) *ChromaRenderer {
	if styleName == "" {
		styleName = DefaultStyle
	}
	return &ChromaRenderer{styleName: styleName, lexers: make(map[string]chroma.Lexer)}
}

func (r *ChromaRenderer) init() {
	r.style = styles.Get(r.styleName)
	r.formatter = html.New(
		html.WithClasses(false),
		html.TabWidth(4),
		html.PreventSurroundingPre(false),
	)
}

func (r *ChromaRenderer) lexer(language string) chroma.Lexer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.lexers[language]; ok {
		return l
	}
	l := lexers.Get(language)
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)
	r.lexers[language] = l
	return l
}

// Render implementa domain.Renderer.
func (r *ChromaRenderer) Render(code, language string) (string, error) {
	r.once.Do(r.init)

	it, err := r.lexer(language).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return "", fmt.Errorf("format %s: %w", language, err)
	}
	return buf.String(), nil
}
