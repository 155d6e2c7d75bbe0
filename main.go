package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/NetScout-Go/WiFiScope/app/diagnostics"
	"github.com/NetScout-Go/WiFiScope/app/history"
	"github.com/NetScout-Go/WiFiScope/app/poller"
	"github.com/NetScout-Go/WiFiScope/app/runner"
	"github.com/NetScout-Go/WiFiScope/app/scanner"
	"github.com/NetScout-Go/WiFiScope/app/speedtest"
	"github.com/NetScout-Go/WiFiScope/app/store"
)

// Build-time variables (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all connections for development
	},
}

// createMyRender creates a multitemplate renderer for proper template inheritance
func createMyRender() multitemplate.Renderer {
	r := multitemplate.NewRenderer()
	r.AddFromFiles("dashboard.html", "app/templates/layout.html", "app/templates/dashboard.html")
	return r
}

func main() {
	port := flag.Int("port", 8080, "Port to run the server on")
	historySize := flag.Int("history", history.DefaultSize, "Number of samples kept per diagnostics metric")
	version := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *version {
		fmt.Printf("WiFiScope %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.WithField("component", "main")
	log.WithField("version", Version).Info("WiFiScope starting")

	run := runner.ExecRunner{}
	st := store.New(*historySize)
	p := poller.New(scanner.New(run), diagnostics.NewSampler(run), st)
	p.Start(context.Background())

	go startDiagnosticsBroadcaster(st)

	r := gin.Default()
	r.HTMLRender = createMyRender()
	r.Static("/static", "./app/static")

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"title": "WiFiScope",
		})
	})
	r.GET("/dashboard", func(c *gin.Context) {
		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"title": "WiFiScope",
		})
	})

	tester := speedtest.New()

	api := r.Group("/api")
	{
		// Latest discovery list; never triggers a scan itself
		api.GET("/networks", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"networks": st.Networks()})
		})

		// Latest diagnostics snapshot plus rolling history per metric
		api.GET("/diagnostics", func(c *gin.Context) {
			current, hist := st.Diagnostics()
			c.JSON(http.StatusOK, gin.H{
				"current": current,
				"history": hist,
			})
		})

		api.POST("/speedtest", func(c *gin.Context) {
			c.JSON(http.StatusOK, tester.Run())
		})
	}

	// WebSocket for real-time updates
	r.GET("/ws", func(c *gin.Context) {
		handleWebSocketConnection(c.Writer, c.Request)
	})

	log.WithField("port", *port).Info("listening")
	if err := r.Run(fmt.Sprintf(":%d", *port)); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// Clients map to manage WebSocket connections
var clients = make(map[*websocket.Conn]bool)
var clientsMutex = sync.Mutex{}

func handleWebSocketConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer ws.Close()

	clientsMutex.Lock()
	clients[ws] = true
	clientsMutex.Unlock()

	defer func() {
		clientsMutex.Lock()
		delete(clients, ws)
		clientsMutex.Unlock()
	}()

	// Drain incoming messages until the client goes away; all data flows
	// through the broadcaster.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

// startDiagnosticsBroadcaster pushes the latest published snapshot to all
// connected clients once per diagnostics interval. It reads the store
// rather than sampling, so websocket clients and the REST API always see
// the same cycle's data.
func startDiagnosticsBroadcaster(st *store.Store) {
	ticker := time.NewTicker(poller.DiagnosticsInterval)
	defer ticker.Stop()

	for range ticker.C {
		clientsMutex.Lock()
		clientCount := len(clients)
		clientsMutex.Unlock()
		if clientCount == 0 {
			continue
		}

		current, hist := st.Diagnostics()
		message := map[string]interface{}{
			"type":      "diagnostics_update",
			"current":   current,
			"history":   hist,
			"timestamp": time.Now().Format(time.RFC3339),
		}

		clientsMutex.Lock()
		for client := range clients {
			if err := client.WriteJSON(message); err != nil {
				logrus.WithError(err).Debug("dropping websocket client")
				client.Close()
				delete(clients, client)
			}
		}
		clientsMutex.Unlock()
	}
}
