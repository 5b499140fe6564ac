package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

const serverAddr = ":8080"

func main() {
	fmt.Println("Mudra - Hand Motion Tracking")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "mudra.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build the application with the persisted tracker config
	application, err := app.New(app.Config{
		Store:     st,
		PluginDir: findPluginDir(dataDir),
		CameraID:  0,
		Tracker:   api.LoadTrackerConfig(st),
	})
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	} else {
		log.Printf("Discovered %d plugins", len(application.PluginManager().List()))
	}

	// Find web directory
	webDir := findWebDir(dataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start the server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       application,
		Camera:    application.Camera(),
	})

	go func() {
		fmt.Printf("Starting server on %s\n", serverAddr)
		if err := srv.ListenAndServe(serverAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Start the capture pipeline; keep serving the API if the camera is
	// unavailable.
	application.SetEnabled(true)
	if err := application.Start(); err != nil {
		log.Printf("Capture pipeline not started: %v", err)
	}

	// Feed the tray's last-event line from the live stream
	t := tray.New()
	go func() {
		updates, cancel := application.Subscribe()
		defer cancel()
		for u := range updates {
			for _, ev := range u.Events {
				t.SetLastEvent(fmt.Sprintf("%s %s #%d", ev.Hand, ev.Kind, ev.ID))
			}
		}
	}()

	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})
	t.OnReset(func() {
		if err := application.ResetSession(); err != nil {
			log.Printf("Failed to reset session: %v", err)
			return
		}
		t.SetLastEvent("")
	})
	t.OnDashboard(func() {
		openBrowser("http://localhost" + serverAddr)
	})
	t.OnQuit(func() {
		application.Stop()
	})

	// Blocks until quit
	t.Run()
}

// findPluginDir returns the first existing plugin directory, preferring the
// one under the data dir.
func findPluginDir(dataDir string) string {
	candidates := []string{
		filepath.Join(dataDir, "plugins"),
		"plugins",
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p
		}
	}
	return filepath.Join(dataDir, "plugins")
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL with the platform's default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
