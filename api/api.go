// Read-only HTTP API over a published output tree:
//
//	GET /index                                 the index.json of the tree
//	GET /runs/{suite}/{group}/{run}            the run.json of one run
//	GET /raw/{suite}/{group}/{run}/{filename}  a published raw file, as text
//
// The API reads the files on every request, so a concurrent collection pass is visible as soon as
// it has written its files.  The OpenAPI description is served at /openapi.json and the docs at
// /docs, by huma.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	. "hplcollect/common"
	"hplcollect/record"
)

const (
	Title   = "HPL results"
	Version = "1.0.0"
)

type RunInput struct {
	Suite string `path:"suite" doc:"Suite name, eg HPL"`
	Group string `path:"group"`
	Run   string `path:"run"`
}

type RawInput struct {
	Suite    string `path:"suite"`
	Group    string `path:"group"`
	Run      string `path:"run"`
	Filename string `path:"filename"`
}

// Every path component must be a plain name.
func identity(suite, group, run string) (record.Identity, error) {
	id := record.Identity{Suite: suite, Group: group, Run: run}
	if err := id.Validate(); err != nil {
		return id, huma.Error400BadRequest("Bad run path", err)
	}
	return id, nil
}

type IndexOutput struct {
	Body *record.Index
}

type RunOutput struct {
	Body *record.RunRecord
}

type RawOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type Server struct {
	outputDir string
}

// A handler for the API over the tree rooted at outputDir.
func NewHandler(outputDir string) http.Handler {
	mux := http.NewServeMux()
	Register(humago.New(mux, huma.DefaultConfig(Title, Version)), outputDir)
	return mux
}

func Register(api huma.API, outputDir string) {
	s := &Server{outputDir: outputDir}
	huma.Get(api, "/index", s.getIndex)
	huma.Get(api, "/runs/{suite}/{group}/{run}", s.getRun)
	huma.Get(api, "/raw/{suite}/{group}/{run}/{filename}", s.getRaw)
}

func (s *Server) getIndex(_ context.Context, _ *struct{}) (*IndexOutput, error) {
	out := &IndexOutput{Body: new(record.Index)}
	if err := readJSON(record.IndexPath(s.outputDir), out.Body); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Server) getRun(_ context.Context, in *RunInput) (*RunOutput, error) {
	id, err := identity(in.Suite, in.Group, in.Run)
	if err != nil {
		return nil, err
	}
	out := &RunOutput{Body: new(record.RunRecord)}
	if err := readJSON(id.RunPath(s.outputDir), out.Body); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Server) getRaw(_ context.Context, in *RawInput) (*RawOutput, error) {
	id, err := identity(in.Suite, in.Group, in.Run)
	if err != nil {
		return nil, err
	}
	if !record.ValidComponent(in.Filename) {
		return nil, huma.Error400BadRequest("Bad file name")
	}
	bs, err := os.ReadFile(id.RawPath(s.outputDir, in.Filename))
	if err != nil {
		return nil, fileError(err)
	}
	return &RawOutput{ContentType: "text/plain; charset=utf-8", Body: bs}, nil
}

func readJSON(filename string, v any) error {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return fileError(err)
	}
	if err := json.Unmarshal(bs, v); err != nil {
		Log.Warningf("Unreadable %s: %v", filename, err)
		return huma.Error500InternalServerError("Unreadable data file")
	}
	return nil
}

func fileError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return huma.Error404NotFound("No such file")
	}
	Log.Warning(err.Error())
	return huma.Error500InternalServerError("Unable to read file")
}
