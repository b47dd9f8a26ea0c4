package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/editor"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/ra"
)

// configKeys lists the settable keys in display order.
var configKeys = []string{"server_url", "data_dir", "port", "timeout_seconds", "editor"}

func registerConfig(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("config")
	cmd.SetDescription("View or change global settings")

	// config show
	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Show effective settings")
	ctx.ConfigShowUsed, _ = cmd.RegisterCmd(showCmd)

	// config set
	setCmd := ra.NewCmd("set")
	setCmd.SetDescription("Set a value: " + strings.Join(configKeys, ", "))

	ctx.ConfigSetKey, _ = ra.NewString("key").
		SetUsage("Setting name").
		Register(setCmd)

	ctx.ConfigSetValue, _ = ra.NewString("value").
		SetUsage("New value (empty string resets to default)").
		Register(setCmd)

	ctx.ConfigSetUsed, _ = cmd.RegisterCmd(setCmd)

	// config path
	pathCmd := ra.NewCmd("path")
	pathCmd.SetDescription("Print the config file path")
	ctx.ConfigPathUsed, _ = cmd.RegisterCmd(pathCmd)

	// config edit
	editCmd := ra.NewCmd("edit")
	editCmd.SetDescription("Open the config file in your editor")
	ctx.ConfigEditUsed, _ = cmd.RegisterCmd(editCmd)

	ctx.ConfigUsed, _ = parent.RegisterCmd(cmd)
}

func runConfigShow(urlFlag string) {
	cfg, err := store.NewGlobalStore().Load()
	if err != nil {
		Fatal(err)
	}

	env := os.Getenv(config.ServerURLEnvVar)
	serverURL := resolveServerURL(urlFlag, env, cfg)
	source := "config"
	switch {
	case urlFlag != "":
		source = "--url"
	case env != "":
		source = config.ServerURLEnvVar
	case cfg.ServerURL == "":
		source = "default"
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDirPath() + " " + RenderMuted("(default)")
	}

	const width = 16
	fmt.Println(LabelValue("config", config.GlobalConfigPath(), width))
	fmt.Println(LabelValue("server_url", RenderURL(serverURL)+" "+RenderMuted("("+source+")"), width))
	fmt.Println(LabelValue("data_dir", dataDir, width))
	fmt.Println(LabelValue("port", strconv.Itoa(cfg.GetPort()), width))
	fmt.Println(LabelValue("timeout_seconds", strconv.Itoa(cfg.GetTimeoutSeconds()), width))
	fmt.Println(LabelValue("editor", editor.NewEditor(cfg).Resolve(), width))
}

func runConfigSet(key, value string) {
	globalStore := store.NewGlobalStore()

	cfg, err := globalStore.Load()
	if err != nil {
		Fatal(err)
	}

	if err := setConfigValue(cfg, key, value); err != nil {
		Fatal(err)
	}

	if err := globalStore.Save(cfg); err != nil {
		Fatal(fmt.Errorf("failed to save config: %w", err))
	}

	if value == "" {
		PrintSuccess("Reset %s to default", key)
		return
	}
	PrintSuccess("Set %s = %s", key, value)
}

func runConfigPath() {
	fmt.Println(config.GlobalConfigPath())
}

func runConfigEdit() {
	globalStore := store.NewGlobalStore()

	if err := globalStore.EnsureExists(); err != nil {
		Fatal(fmt.Errorf("failed to create config: %w", err))
	}

	cfg, err := globalStore.Load()
	if err != nil {
		// Still open a broken file so it can be repaired
		PrintWarning("%v", err)
		cfg = &model.GlobalConfig{}
	}

	if err := editor.NewEditor(cfg).OpenFile(config.GlobalConfigPath()); err != nil {
		Fatal(err)
	}

	if _, err := globalStore.Load(); err != nil {
		PrintWarning("Config is not valid after editing: %v", err)
		return
	}
	PrintSuccess("Saved %s", config.GlobalConfigPath())
}

// setConfigValue applies one key to cfg. An empty value clears the key.
func setConfigValue(cfg *model.GlobalConfig, key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "server_url":
		if value != "" {
			u, err := url.Parse(value)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("invalid server_url %q: expected http(s)://host[:port]", value)
			}
		}
		cfg.ServerURL = value

	case "data_dir":
		cfg.DataDir = value

	case "editor":
		cfg.Editor = value

	case "port":
		n, err := parseOptionalInt(value, 1, 65535)
		if err != nil {
			return fmt.Errorf("invalid port: %w", err)
		}
		cfg.Port = n

	case "timeout_seconds":
		n, err := parseOptionalInt(value, 1, 3600)
		if err != nil {
			return fmt.Errorf("invalid timeout_seconds: %w", err)
		}
		cfg.TimeoutSeconds = n

	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(configKeys, ", "))
	}
	return nil
}

func parseOptionalInt(value string, lo, hi int) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", value)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d is out of range %d-%d", n, lo, hi)
	}
	return n, nil
}
