package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mastercactapus/plotarm/calibration"
)

type ServeCommand struct {
	Addr string `long:"addr" default:":9091" description:"Address to bind the API server to"`
	Dir  string `long:"dir" default:"./data" description:"Data directory for uploaded SVG files"`
}

func (c *ServeCommand) Execute(args []string) error {
	g := opts.Global
	cal, err := calibration.Load(g.Calibration)
	if err != nil {
		return err
	}

	a := newAPI(g.runner(cal), c.Dir, g.checkReady)
	srv := &http.Server{
		Addr: c.Addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "*")
			log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
			a.ServeHTTP(w, req)
		}),
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		signal.Stop(ch)
		log.Printf("WARN: %s received, stopping job and shutting down", sig)
		a.ctrl.Cancel()
		a.wait()
		a.sse.Shutdown()
		srv.Close()
	}()

	log.Println("Listening on", c.Addr)
	err = srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
