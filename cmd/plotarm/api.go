package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"

	"github.com/mastercactapus/plotarm/gcode"
	"github.com/mastercactapus/plotarm/job"
)

type api struct {
	http.Handler
	runner  *job.Runner
	dataDir string
	sse     *sse.Server

	// ready is checked before a job is accepted.
	ready func() error

	ctrl job.Controller

	mx   sync.Mutex
	busy bool
	done chan struct{}
}

type jobRequest struct {
	Kind    string  `json:"kind"`
	Content string  `json:"content"`
	Size    float64 `json:"size"`
	Feed    float64 `json:"feed"`
}

func newAPI(r *job.Runner, dir string, ready func() error) *api {
	router := mux.NewRouter()

	a := &api{
		Handler: router,
		runner:  r,
		dataDir: dir,
		ready:   ready,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}
	r.Notify = a.publish

	fs := http.StripPrefix("/data", http.FileServer(http.Dir(dir)))
	router.PathPrefix("/data/").Methods("GET").Handler(fs)
	router.PathPrefix("/data/").Methods("PUT").Handler(http.StripPrefix("/data", http.HandlerFunc(a.putFile)))
	router.PathPrefix("/data/").Methods("DELETE").Handler(http.StripPrefix("/data", http.HandlerFunc(a.deleteFile)))

	router.HandleFunc("/api/jobs", a.startJob).Methods("POST")
	router.HandleFunc("/api/run", a.run).Methods("POST")
	router.HandleFunc("/api/cancel", a.cancel).Methods("POST")
	router.HandleFunc("/api/status", a.status).Methods("GET")

	router.PathPrefix("/events/").Handler(a.sse)

	return a
}

func (a *api) publish(s job.Status) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("ERROR: marshal json: %+v", err)
		return
	}
	a.sse.SendMessage("/events/state", sse.SimpleMessage(string(data)))
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		log.Println("invalid path '" + name + "'")
		return false, ""
	}
	dir := string(base)
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

func (a *api) request(body io.Reader) (job.Request, error) {
	var jr jobRequest
	err := json.NewDecoder(body).Decode(&jr)
	if err != nil {
		return job.Request{}, err
	}
	kind, err := job.ParseKind(jr.Kind)
	if err != nil {
		return job.Request{}, err
	}
	req := job.Request{Kind: kind, Content: jr.Content, Size: jr.Size, Feed: jr.Feed}
	if kind == job.KindSVG {
		ok, name := safePath(a.dataDir, jr.Content)
		if !ok {
			return job.Request{}, os.ErrInvalid
		}
		req.Content = name
	}
	return req, nil
}

func (a *api) startJob(w http.ResponseWriter, req *http.Request) {
	jr, err := a.request(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if a.ready != nil {
		err = a.ready()
		if err != nil {
			http.Error(w, err.Error(), http.StatusPreconditionFailed)
			return
		}
	}

	if !a.launch(jr.String(), func(ctx context.Context) job.Result { return a.runner.Run(ctx, jr) }) {
		http.Error(w, job.ErrBusy.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// run streams the G-code in the request body.
func (a *api) run(w http.ResponseWriter, req *http.Request) {
	data, err := ioutil.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	blocks, err := gcode.ReadAll(bytes.NewReader(data))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if a.ready != nil {
		err = a.ready()
		if err != nil {
			http.Error(w, err.Error(), http.StatusPreconditionFailed)
			return
		}
	}

	if !a.launch("upload", func(ctx context.Context) job.Result {
		return a.runner.Replay(ctx, "upload", bytes.NewReader(data))
	}) {
		http.Error(w, job.ErrBusy.Error(), http.StatusConflict)
		return
	}
	log.Printf("Accepted %d blocks", len(blocks))
	w.WriteHeader(http.StatusAccepted)
}

// launch starts fn in the background unless a job is already running.
func (a *api) launch(desc string, fn func(context.Context) job.Result) bool {
	a.mx.Lock()
	defer a.mx.Unlock()
	if a.busy {
		return false
	}
	a.busy = true
	done := make(chan struct{})
	a.done = done
	ctx := a.ctrl.Start(context.Background())

	go func() {
		res := fn(ctx)
		if res.Outcome == job.Failure {
			log.Printf("ERROR: job %s: %v", desc, res.Err)
		}

		a.mx.Lock()
		a.ctrl.Finish()
		a.busy = false
		close(done)
		a.mx.Unlock()
	}()
	return true
}

// wait blocks until the current job, if any, has finished.
func (a *api) wait() {
	a.mx.Lock()
	done := a.done
	a.mx.Unlock()
	if done != nil {
		<-done
	}
}

func (a *api) cancel(w http.ResponseWriter, req *http.Request) {
	a.ctrl.Cancel()
	w.WriteHeader(http.StatusAccepted)
}

func (a *api) status(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(a.runner.Status())
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	os.MkdirAll(filepath.Dir(name), 0755)
	f, err := os.Create(name)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := safePath(a.dataDir, req.URL.Path)
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := os.Remove(name)
	if err != nil {
		log.Printf("ERROR: delete '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
