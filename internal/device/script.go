package device

import (
	"fmt"
	"log/slog"

	"github.com/frida/frida-go/frida"

	"github.com/crissyfield/appinventory/internal/device/agent"
)

// Script is the agent loaded into a device process.
type Script struct {
	session *frida.Session
	script  *frida.Script
}

// LoadScriptIntoProcess attaches to the process with the given ID and loads the
// script into it. Console output and uncaught exceptions of the script are
// forwarded to the default logger.
func (dev *Device) LoadScriptIntoProcess(content string, pid int) (*Script, error) {
	// Attach to process
	session, err := dev.device.Attach(pid, nil)
	if err != nil {
		return nil, fmt.Errorf("attach to process [%d]: %w", pid, err)
	}

	// Create script
	script, err := session.CreateScript(content)
	if err != nil {
		session.Detach() //nolint
		return nil, fmt.Errorf("create script: %w", err)
	}

	script.On("message", forwardMessage)

	// Load script into process
	if err := script.Load(); err != nil {
		session.Detach() //nolint
		return nil, fmt.Errorf("load script: %w", err)
	}

	slog.Debug("Loaded agent", slog.Int("pid", pid), slog.String("device", dev.Name))

	return &Script{session: session, script: script}, nil
}

// Close unloads the script and detaches from the process.
func (scr *Script) Close() {
	scr.script.Unload()  //nolint
	scr.session.Detach() //nolint
}

// Call invokes an RPC export of the script.
func (scr *Script) Call(fn string, args ...any) any {
	return scr.script.ExportsCall(fn, args...)
}

// forwardMessage logs a raw script message.
func forwardMessage(raw string) {
	msg, err := agent.ParseMessage(raw)
	if err != nil {
		slog.Debug("Dropping agent message", slog.String("message", raw), slog.Any("error", err))
		return
	}

	msg.Log(slog.Default())
}
