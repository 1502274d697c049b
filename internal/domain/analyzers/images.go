package analyzers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/a11ykraft/a11ykraft/internal/domain"
)

// Figure is a caption line referring to a non-text element.
type Figure struct {
	Label   string `json:"label"`
	Number  string `json:"number,omitempty"`
	Caption string `json:"caption"`
	Line    int    `json:"line"`
	Words   int    `json:"words"`
	Complex bool   `json:"complex"`
}

// ImageAnalysis lists the figure captions and inline references of a document.
type ImageAnalysis struct {
	Figures          []Figure `json:"figures"`
	InlineReferences int      `json:"inline_references"`
	Truncated        bool     `json:"truncated"`
}

const (
	maxFigures      = 25
	minCaptionWords = 4
	altTextMaxRunes = 125
)

var (
	figureCaptionRe = regexp.MustCompile(`(?i)^(figure|fig\.|image|chart|graph|diagram|photo|illustration|screenshot)\s*(\d+(?:\.\d+)*)?\s*([:.\-–—])?\s*(.*)$`)
	figureRefRe     = regexp.MustCompile(`(?i)\b(?:see|in|shown in|as in)\s+(?:figure|fig\.|chart|diagram)\s*\d`)
	complexImageRe  = regexp.MustCompile(`(?i)\b(chart|graph|diagram|map|flowchart|infographic|plot)\b`)
)

// AnalyzeImages finds figure captions. A line counts as a caption when it
// starts with an image label followed by a number or a separator.
func AnalyzeImages(text string) ImageAnalysis {
	a := ImageAnalysis{Figures: []Figure{}}
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		a.InlineReferences += len(figureRefRe.FindAllStringIndex(line, -1))
		f, ok := parseFigure(line)
		if !ok {
			continue
		}
		if len(a.Figures) == maxFigures {
			a.Truncated = true
			continue
		}
		f.Line = i + 1
		a.Figures = append(a.Figures, f)
	}
	return a
}

func parseFigure(line string) (Figure, bool) {
	m := figureCaptionRe.FindStringSubmatch(line)
	if m == nil || (m[2] == "" && m[3] == "") {
		return Figure{}, false
	}
	caption := strings.TrimSpace(m[4])
	f := Figure{
		Label:   strings.ToLower(strings.TrimSuffix(m[1], ".")),
		Number:  m[2],
		Caption: caption,
		Words:   len(strings.Fields(caption)),
	}
	f.Complex = complexImageRe.MatchString(m[1] + " " + caption)
	return f, true
}

func (f Figure) name() string {
	label := strings.ToUpper(f.Label[:1]) + f.Label[1:]
	if f.Number != "" {
		return label + " " + f.Number
	}
	return label
}

// ImageAnalyzer checks that images are described in the text.
type ImageAnalyzer struct {
	s settings
}

func NewImageAnalyzer(opts ...Option) *ImageAnalyzer {
	return &ImageAnalyzer{s: newSettings(opts)}
}

func (a *ImageAnalyzer) Describe() domain.AnalyzerInfo {
	return domain.AnalyzerInfo{
		Name:    domain.AnalyzerImages,
		Purpose: "Finds figure captions and checks that images have text alternatives",
		Rules:   []string{domain.RuleNonTextContent, domain.RuleImagesOfText},
	}
}

// Eligible requires the images flag or a figure caption in the text.
func (a *ImageAnalyzer) Eligible(actx *domain.AnalysisContext) bool {
	if actx == nil {
		return false
	}
	if actx.HasImages() {
		return true
	}
	for _, line := range actx.Lines() {
		if _, ok := parseFigure(strings.TrimSpace(line)); ok {
			return true
		}
	}
	return false
}

func (a *ImageAnalyzer) Run(ctx context.Context, actx *domain.AnalysisContext, gen domain.FixGenerator) domain.Result {
	return run(ctx, a.s, domain.AnalyzerImages, actx, gen, func(res *domain.Result) error {
		analysis := AnalyzeImages(actx.Text())
		res.Details = analysis

		if len(analysis.Figures) == 0 {
			if actx.HasImages() {
				res.Issues = append(res.Issues, domain.Issue{
					Category:    domain.CategoryMissingAltText,
					Severity:    domain.SeverityHigh,
					Description: "Document contains images but no figure captions or text descriptions were found",
					Rules:       []string{domain.RuleNonTextContent},
					Suggestion:  "Add alternative text to every informative image and mark decorative images as artifacts",
				})
			}
			return nil
		}

		for _, f := range analysis.Figures {
			loc := fmt.Sprintf("line %d", f.Line)
			if f.Words < minCaptionWords {
				res.Issues = append(res.Issues, domain.Issue{
					Category:    domain.CategoryMissingAltText,
					Severity:    domain.SeverityMedium,
					Description: fmt.Sprintf("%s has a missing or too short caption", f.name()),
					Location:    loc,
					Rules:       []string{domain.RuleNonTextContent},
					Suggestion:  "Describe what the image shows in at least one full sentence",
				})
			} else {
				res.Fixes = append(res.Fixes, domain.Fix{
					Kind:        "alt_text",
					Description: fmt.Sprintf("Use the caption of %s as its alternative text", f.name()),
					Rules:       []string{domain.RuleNonTextContent},
					After:       truncate(f.Caption, altTextMaxRunes),
				})
			}
			if f.Complex {
				res.Issues = append(res.Issues, domain.Issue{
					Category:    domain.CategoryMissingAltText,
					Severity:    domain.SeverityMedium,
					Description: fmt.Sprintf("%s looks like a complex image that needs a long description", f.name()),
					Location:    loc,
					Rules:       []string{domain.RuleNonTextContent, domain.RuleImagesOfText},
					Suggestion:  "Provide the underlying data or a long description next to the image",
				})
			}
		}
		return nil
	})
}
