package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ============================================================================
// 持仓台账持久化
// ============================================================================

// savePortfolio 保存持仓台账到文件
func savePortfolio(snapshot PortfolioSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(portfolioFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(portfolioFile, data, 0644)
}

// loadPortfolio 从文件加载持仓台账
func loadPortfolio() PortfolioSnapshot {
	data, err := os.ReadFile(portfolioFile)
	if err != nil {
		return PortfolioSnapshot{Positions: []Position{}}
	}

	var snapshot PortfolioSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logger.Warnf("持仓文件解析失败，使用空台账: %v", err)
		return PortfolioSnapshot{Positions: []Position{}}
	}
	return snapshot
}

// ============================================================================
// 用户偏好持久化
// ============================================================================

// savePreferences 保存用户偏好
func savePreferences(prefs Preferences) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(preferencesFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(preferencesFile, data, 0644)
}

// loadPreferences 加载用户偏好，缺失或非法时回落到稳健型
func loadPreferences() Preferences {
	data, err := os.ReadFile(preferencesFile)
	if err != nil {
		return Preferences{RiskPreference: RiskBalanced}
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Preferences{RiskPreference: RiskBalanced}
	}
	if !isValidRiskPreference(prefs.RiskPreference) {
		prefs.RiskPreference = RiskBalanced
	}
	return prefs
}

// ============================================================================
// 配置文件持久化
// ============================================================================

// getDefaultConfig 获取默认配置
func getDefaultConfig() Config {
	return Config{
		System: SystemConfig{
			Language:  "zh",  // 默认中文
			DebugMode: false, // 调试模式关闭
		},
		Backend: BackendConfig{
			BaseURL:        "http://127.0.0.1:8000",
			TimeoutSeconds: 120, // LLM 分析耗时较长
		},
		Update: UpdateConfig{
			AutoRefresh:            true,
			RefreshIntervalMinutes: defaultRefreshIntervalMinutes,
		},
		Display: DisplayConfig{
			DecimalPlaces:      2,
			TableStyle:         "light",
			MaxLines:           10,
			SelectionHighlight: "yellow",
		},
	}
}

// loadConfig 加载配置文件
func loadConfig() Config {
	data, err := os.ReadFile(configFile)
	if err != nil {
		// 配置文件不存在时创建默认配置文件
		config := getDefaultConfig()
		saveConfig(config)
		return applyEnvOverrides(config)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		// 格式错误时使用默认配置
		return applyEnvOverrides(getDefaultConfig())
	}

	// 验证配置的合理性
	if config.Backend.BaseURL == "" {
		config.Backend.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Backend.TimeoutSeconds <= 0 {
		config.Backend.TimeoutSeconds = 120
	}
	if config.Update.RefreshIntervalMinutes <= 0 {
		config.Update.RefreshIntervalMinutes = defaultRefreshIntervalMinutes
	}
	if config.Display.MaxLines <= 0 || config.Display.MaxLines > 50 {
		config.Display.MaxLines = 10
	}
	if config.Display.DecimalPlaces < 0 || config.Display.DecimalPlaces > 4 {
		config.Display.DecimalPlaces = 2
	}
	if config.Display.SelectionHighlight == "" {
		config.Display.SelectionHighlight = "yellow"
	}

	return applyEnvOverrides(config)
}

// saveConfig 保存配置文件
func saveConfig(config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(configFile, data, 0644)
}

// applyEnvOverrides 环境变量覆盖配置文件
// .env 可选，不存在时静默忽略
func applyEnvOverrides(config Config) Config {
	godotenv.Load()

	if url := os.Getenv("ALPHA_BACKEND_URL"); url != "" {
		config.Backend.BaseURL = url
	}
	return config
}
