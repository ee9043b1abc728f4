package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestConfigWatcherStartStop 测试监听器启动与停止
func TestConfigWatcherStartStop(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte(testConfigContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	watcher, err := NewConfigWatcher(tempDir, "test")
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	if err := watcher.Stop(); err != nil {
		t.Errorf("Failed to stop watcher: %v", err)
	}
}

// TestConfigWatcherReload 测试配置重载与回调通知
func TestConfigWatcherReload(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte(testConfigContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	watcher, err := NewConfigWatcher(tempDir, "test")
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}

	var gotLevel string
	watcher.AddCallback(func(oldConfig, newConfig *Config) error {
		gotLevel = newConfig.Log.Level
		return nil
	})

	if err := watcher.reloadConfig(); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if gotLevel != "info" {
		t.Errorf("Expected callback to see log level 'info', got '%s'", gotLevel)
	}

	// 修改日志级别后再次重载
	changed := strings.Replace(testConfigContent, "\n  level: \"info\"", "\n  level: \"debug\"", 1)
	if err := os.WriteFile(configFile, []byte(changed), 0644); err != nil {
		t.Fatalf("Failed to rewrite config file: %v", err)
	}

	if err := watcher.reloadConfig(); err != nil {
		t.Fatalf("Failed to reload changed config: %v", err)
	}
	if gotLevel != "debug" {
		t.Errorf("Expected callback to see log level 'debug', got '%s'", gotLevel)
	}
}

// TestIsConfigFile 测试配置文件名识别
func TestIsConfigFile(t *testing.T) {
	watcher := &ConfigWatcher{}

	tests := []struct {
		filename string
		want     bool
	}{
		{"config.yaml", true},
		{"config.yml", true},
		{"config.prod.yaml", true},
		{"config.test.yml", true},
		{"other.yaml", false},
		{"config.json", false},
		{"config.yaml.bak", false},
	}

	for _, tt := range tests {
		if got := watcher.isConfigFile(filepath.Join("configs", tt.filename)); got != tt.want {
			t.Errorf("isConfigFile(%q) = %t, want %t", tt.filename, got, tt.want)
		}
	}
}

// TestLogConfigChanged 测试日志配置变化检测
func TestLogConfigChanged(t *testing.T) {
	base := &Config{Log: LogConfig{Level: "info", Format: "json", Output: "stdout"}}

	if LogConfigChanged(nil, base) {
		t.Error("Expected no change when old config is nil")
	}

	same := &Config{Log: LogConfig{Level: "info", Format: "json", Output: "stdout"}}
	if LogConfigChanged(base, same) {
		t.Error("Expected no change for identical log config")
	}

	levelChanged := &Config{Log: LogConfig{Level: "debug", Format: "json", Output: "stdout"}}
	if !LogConfigChanged(base, levelChanged) {
		t.Error("Expected change when log level differs")
	}
}
