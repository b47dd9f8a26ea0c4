package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/amterp/palette/internal/api"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/ra"
)

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start the color server and web interface")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on, default from config or 3000 (will try incrementally if in use)").
		Register(cmd)

	ctx.ServeData, _ = ra.NewString("data").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Data directory (default from config or ~/.palette)").
		Register(cmd)

	ctx.ServeNoOpen, _ = ra.NewBool("no-open").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Don't open browser automatically").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(port int, dataDir string, noOpen bool) {
	cfg, err := store.NewGlobalStore().Load()
	if err != nil {
		PrintWarning("Failed to load global config: %v", err)
		cfg = &model.GlobalConfig{}
	}
	if port == 0 {
		port = cfg.GetPort()
	}
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	serverCtx, err := api.BuildServerContext(dataDir)
	if err != nil {
		Fatal(err)
	}

	handler := api.NewHandler(serverCtx.ColorService)

	// Find an available port starting from the requested one
	actualPort := findAvailablePort(port)

	server := api.NewServer(handler, actualPort, serverCtx.Paths.DataRoot())

	url := fmt.Sprintf("http://localhost:%d", actualPort)
	fmt.Printf("Palette server running at %s\n", RenderURL(url))
	fmt.Printf("Data directory: %s\n", RenderMuted(serverCtx.Paths.DataRoot()))
	if actualPort != port {
		PrintWarning("Port %d in use; clients need --url %s", port, url)
	}
	fmt.Println("Press Ctrl+C to stop")

	if !noOpen {
		openBrowser(url)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			Fatal(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			Fatal(err)
		}
		PrintInfo("Server stopped")
	}
}

// findAvailablePort tries ports starting from startPort until it finds one that's available.
func findAvailablePort(startPort int) int {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		if isPortAvailable(port) {
			return port
		}
	}
	// Let the caller fail naturally on the original port
	return startPort
}

// isPortAvailable checks if a port is available by attempting to listen on it.
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
