package httpservice

import "net/http"

import "github.com/prometheus/client_golang/prometheus/promhttp"

import "tsquorum/pkg/logger"
import "tsquorum/pkg/tserver"

//=========================================== Admin HTTP Service


var Log = clog.NewCustomLog("AdminService")

/*
	AdminService exposes the transaction server's /metrics (Prometheus
	exposition) and /status (human/debug JSON dump) endpoints, following
	the teacher's mux-construction-plus-route-registration pattern.
*/

type AdminService struct {
	Mux *http.ServeMux
	Addr string
	server *tserver.TransactionServer
}

func NewAdminService(addr string, server *tserver.TransactionServer) *AdminService {
	admin := &AdminService{
		Mux: http.NewServeMux(),
		Addr: addr,
		server: server,
	}

	admin.registerRoutes()

	return admin
}

func (admin *AdminService) registerRoutes() {
	admin.Mux.Handle("/metrics", promhttp.Handler())
	admin.Mux.HandleFunc("/status", admin.handleStatus)
}

func (admin *AdminService) Start() {
	go func() {
		Log.Info("admin service starting up on", admin.Addr)

		srvErr := http.ListenAndServe(admin.Addr, admin.Mux)
		if srvErr != nil { Log.Fatal("unable to start admin service:", srvErr.Error()) }
	}()
}
