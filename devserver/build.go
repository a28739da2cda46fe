package devserver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/gekko3d/glint"
)

// wasmBuilder shells out to the Go toolchain to cross-compile the app
// for js/wasm.
type wasmBuilder struct {
	appDir  string
	outPath string
	log     glint.Logger
}

func newWasmBuilder(appDir, outDir string, log glint.Logger) *wasmBuilder {
	return &wasmBuilder{
		appDir:  appDir,
		outPath: filepath.Join(outDir, "main.wasm"),
		log:     log,
	}
}

func (b *wasmBuilder) OutPath() string { return b.outPath }

func (b *wasmBuilder) Build() error {
	start := time.Now()

	cmd := exec.Command("go", "build", "-o", b.outPath, ".")
	cmd.Dir = b.appDir
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")

	out, err := cmd.CombinedOutput()
	if err != nil {
		b.log.Errorf("%s\n%s", color.RedString("Build failed:"), strings.TrimSpace(string(out)))
		return fmt.Errorf("go build: %w", err)
	}

	b.log.Infof("%s", color.GreenString("Built main.wasm in %s", time.Since(start).Round(time.Millisecond)))
	return nil
}

// locateWasmExec finds the wasm_exec.js runtime shim inside GOROOT.
// Go 1.24 moved it from misc/wasm to lib/wasm; both are checked.
func locateWasmExec() (string, error) {
	out, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return "", fmt.Errorf("go env GOROOT: %w", err)
	}
	goroot := strings.TrimSpace(string(out))

	return findWasmExec(goroot)
}

func findWasmExec(goroot string) (string, error) {
	candidates := []string{
		filepath.Join(goroot, "lib", "wasm", "wasm_exec.js"),
		filepath.Join(goroot, "misc", "wasm", "wasm_exec.js"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("wasm_exec.js not found under %s", goroot)
}

// BuildSite writes a self-contained static page for the app into
// outDir: index.html, wasm_exec.js and main.wasm.
func BuildSite(appDir, outDir, title string, log glint.Logger) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	builder := &wasmBuilder{
		appDir:  appDir,
		outPath: filepath.Join(outDir, "main.wasm"),
		log:     log,
	}
	if err := builder.Build(); err != nil {
		return err
	}

	wasmExecPath, err := locateWasmExec()
	if err != nil {
		return err
	}
	runtime, err := os.ReadFile(wasmExecPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "wasm_exec.js"), runtime, 0o644); err != nil {
		return err
	}

	page, err := renderIndex(title, false)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "index.html"), page, 0o644); err != nil {
		return err
	}

	log.Infof("Site written to %s", outDir)
	return nil
}
