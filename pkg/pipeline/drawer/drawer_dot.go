package drawer

import (
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-passpipe/internal/store"
	"github.com/askiada/go-passpipe/pkg/pipeline/measure"
	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

var ErrUnknownStatus = errors.New("unknown status")

// DOTDrawer is a drawer that creates a DOT file with the step graph.
type DOTDrawer struct {
	graph    graph.Graph[string, *model.StepInfo]
	store    store.OrderedStore[string, *model.StepInfo]
	fileName string
}

func stepHash(step *model.StepInfo) string {
	return step.Path
}

// NewDOTDrawer creates a new DOT drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	st := store.NewMemoryStore[string, *model.StepInfo]()

	return &DOTDrawer{
		fileName: fileName,
		store:    st,
		graph:    graph.NewWithStore(stepHash, st, graph.Directed()),
	}
}

func shape(kind model.StepKind) string {
	switch kind {
	case model.PipelineKind:
		return "doubleoctagon"
	case model.GroupKind:
		return "folder"
	default:
		return "box"
	}
}

// AddStep adds a step to the step graph.
func (d *DOTDrawer) AddStep(step *model.StepInfo) error {
	err := d.graph.AddVertex(step,
		graph.VertexAttribute("label", step.Name),
		graph.VertexAttribute("shape", shape(step.Kind)),
	)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "unable to add vertex %s", step.Path)
	}

	return nil
}

// AddLink adds a link between parent and child steps, labelled with the
// position of the child below its parent.
func (d *DOTDrawer) AddLink(parentPath, childPath string) error {
	if _, err := d.graph.Edge(parentPath, childPath); err == nil {
		return nil
	}

	siblings, err := d.store.OutEdges(parentPath)
	if err != nil {
		return errors.Wrapf(err, "unable to list children of %s", parentPath)
	}

	err = d.graph.AddEdge(parentPath, childPath, graph.EdgeAttribute("label", strconv.Itoa(len(siblings)+1)))
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentPath, childPath)
	}

	return nil
}

// StatusColor returns the fill colour of a status, empty for a step that never finished.
func StatusColor(status string) (string, error) {
	var (
		rgb *colors.RGBColor
		err error
	)

	switch status {
	case "":
		return "", nil
	case model.StatusOK:
		rgb, err = colors.RGB(155, 227, 155) //nolint
	case model.StatusError:
		rgb, err = colors.RGB(244, 143, 143) //nolint
	case measure.CachedStatus:
		rgb, err = colors.RGB(211, 211, 211) //nolint
	default:
		return "", errors.Wrapf(ErrUnknownStatus, "%q", status)
	}

	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return rgb.ToHEX().String(), nil
}

// SetStatus fills the step with the colour of status.
func (d *DOTDrawer) SetStatus(path, status string) error {
	fill, err := StatusColor(status)
	if err != nil {
		return err
	}

	err = d.store.UpdateVertex(path, func(properties *graph.VertexProperties) {
		if fill == "" {
			delete(properties.Attributes, "style")
			delete(properties.Attributes, "fillcolor")

			return
		}

		properties.Attributes["style"] = "filled"
		properties.Attributes["fillcolor"] = fill
	})
	if err != nil {
		return errors.Wrapf(err, "unable to update vertex %s", path)
	}

	return nil
}

// SetTotalTime labels the step with the time elapsed since startTime.
func (d *DOTDrawer) SetTotalTime(path string, startTime time.Time) error {
	err := d.store.UpdateVertex(path, func(properties *graph.VertexProperties) {
		properties.Attributes["xlabel"] = "total: " + time.Since(startTime).Round(time.Millisecond).String()
	})
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", path)
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels every measured step with its metrics and outlines it
// with a colour going from blue for the fastest step to red for the slowest.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	all := msr.AllMetrics()

	var minValue, maxValue time.Duration

	first := true

	for _, mt := range all {
		if mt.Runs() == 0 {
			continue
		}

		avg := mt.AVGDuration()
		if first || avg < minValue {
			minValue = avg
		}

		if first || avg > maxValue {
			maxValue = avg
		}

		first = false
	}

	for path, mt := range all {
		border := ""

		if mt.Runs() > 0 {
			fraction := 1.0
			if maxValue > minValue {
				fraction = float64(mt.AVGDuration()-minValue) / float64(maxValue-minValue)
			}

			red := maxRGB * fraction
			blue := maxRGB - red

			rgb, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
			if err != nil {
				return errors.Wrap(err, "unable to get colour")
			}

			border = rgb.ToHEX().String()
		}

		label := metricLabel(mt)

		err := d.store.UpdateVertex(path, func(properties *graph.VertexProperties) {
			properties.Attributes["xlabel"] = label
			if border != "" {
				properties.Attributes["color"] = border
				properties.Attributes["penwidth"] = "2"
			}
		})
		if err != nil {
			return errors.Wrapf(err, "unable to update vertex %s", path)
		}
	}

	return nil
}

func metricLabel(mt measure.Metric) string {
	parts := []string{}
	if mt.Runs() > 0 {
		parts = append(parts, "avg: "+mt.AVGDuration().String(), fmt.Sprintf("runs: %d", mt.Runs()))
	}

	if mt.CacheHits() > 0 {
		parts = append(parts, fmt.Sprintf("cached: %d", mt.CacheHits()))
	}

	if mt.Errors() > 0 {
		parts = append(parts, fmt.Sprintf("errors: %d", mt.Errors()))
	}

	return strings.Join(parts, ", ")
}

// Draw creates a DOT file with the step graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = d.Render(file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	return nil
}

// Render writes the DOT description of the step graph to wrt.
// Vertices and edges are written in insertion order.
func (d *DOTDrawer) Render(wrt io.Writer) error {
	desc, err := d.generateDOT(GraphAttribute("rankdir", "LR"))
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
{{range $k, $v := .Attributes}}	{{$k}}="{{quote $v}}";
{{end}}{{range $s := .Statements}}	"{{quote .Source}}" {{if .Target}}{{$.EdgeOperator}} "{{quote .Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{quote $v}}", {{end}}weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}}{{range $k, $v := .SourceAttributes}}{{$k}}="{{quote $v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{end}}}
`

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote escapes s for use inside a double-quoted DOT string.
func quote(s string) string {
	return dotEscaper.Replace(s)
}

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

// GraphAttribute is a functional option for the DOT description.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func (d *DOTDrawer) generateDOT(options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if d.graph.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	vertices, err := d.store.ListVertices()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list vertices")
	}

	for _, vertex := range vertices {
		step, sourceProperties, err := d.graph.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(sourceProperties.Attributes))
		for k, v := range sourceProperties.Attributes {
			attributes[k] = v
		}

		htmlAttributes := make(map[string]string)

		if xlabel, ok := attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`,
				html.EscapeString(step.Name), html.EscapeString(xlabel))

			delete(attributes, "xlabel")
			delete(attributes, "label")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})

		edges, err := d.store.OutEdges(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to list edges")
		}

		for _, edge := range edges {
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         edge.Target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Funcs(template.FuncMap{"quote": quote}).Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
