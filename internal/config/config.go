package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"weeklydash/internal/logger"
)

// AppConfig 애플리케이션 설정
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Log     LogConfig     `toml:"log"`
	Import  ImportConfig  `toml:"import"`
	Sellers SellersConfig `toml:"sellers"`
	Report  ReportConfig  `toml:"report"`
}

// ServerConfig HTTP 서버
type ServerConfig struct {
	Port        int      `toml:"port" validate:"min=1,max=65535"`
	DevMode     bool     `toml:"dev_mode"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DataConfig 데이터 디렉터리
type DataConfig struct {
	DataDir string `toml:"data_dir" validate:"required"`
	DBFile  string `toml:"db_file" validate:"required"`
}

// LogConfig 로그
type LogConfig struct {
	Level      string `toml:"level" validate:"oneof=debug info warn warning error"`
	Format     string `toml:"format" validate:"oneof=text json"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"min=0"`
	MaxBackups int    `toml:"max_backups" validate:"min=0"`
}

// ImportConfig 업로드 처리
type ImportConfig struct {
	HeaderScanRows int   `toml:"header_scan_rows" validate:"min=1,max=50"`
	MaxUploadMB    int   `toml:"max_upload_mb" validate:"min=1"`
}

// SellersConfig 판매자 소속 분류 명단
type SellersConfig struct {
	OpsTeam  []string `toml:"ops_team"`
	Departed []string `toml:"departed"`
}

// ReportConfig 조회 기본값
type ReportConfig struct {
	DefaultYear int `toml:"default_year" validate:"min=0"`
}

// LoadConfigInfo 로드 과정 메타 정보
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
	EnvFile       string
}

// envOverrides WEEKLYDASH_* 환경 변수. 값이 없는 변수는 기존 값을 유지한다.
type envOverrides struct {
	Port           int      `env:"WEEKLYDASH_PORT"`
	DevMode        bool     `env:"WEEKLYDASH_DEV_MODE"`
	CORSOrigins    []string `env:"WEEKLYDASH_CORS_ORIGINS" envSeparator:","`
	DataDir        string   `env:"WEEKLYDASH_DATA_DIR"`
	DBFile         string   `env:"WEEKLYDASH_DB_FILE"`
	LogLevel       string   `env:"WEEKLYDASH_LOG_LEVEL"`
	LogFormat      string   `env:"WEEKLYDASH_LOG_FORMAT"`
	LogFile        string   `env:"WEEKLYDASH_LOG_FILE"`
	HeaderScanRows int      `env:"WEEKLYDASH_HEADER_SCAN_ROWS"`
	MaxUploadMB    int      `env:"WEEKLYDASH_MAX_UPLOAD_MB"`
	OpsTeam        []string `env:"WEEKLYDASH_OPS_TEAM" envSeparator:","`
	Departed       []string `env:"WEEKLYDASH_DEPARTED" envSeparator:","`
}

// DefaultConfig 기본 설정
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			CORSOrigins: []string{"*"},
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "weeklydash.db",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 5,
		},
		Import: ImportConfig{
			HeaderScanRows: 5,
			MaxUploadMB:    32,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 실행 파일이 있는 디렉터리
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrDot() string {
	dir, err := GetExeDir()
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// LoadConfigWithInfo 실행 파일 옆 config.toml 을 읽고 .env, 환경 변수로 덮어쓴다
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	dir := exeDirOrDot()
	if v := os.Getenv("WEEKLYDASH_CONFIG_DIR"); v != "" {
		dir = v
	}
	return LoadFrom(dir)
}

// LoadFrom dir 의 config.toml 과 .env 로 설정을 만든다. 둘 다 없어도 된다.
func LoadFrom(dir string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: filepath.Join(dir, "config.toml")}
	config := DefaultConfig()

	data, err := os.ReadFile(info.Path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", info.Path, err)
		}
	case !os.IsNotExist(err):
		return nil, info, fmt.Errorf("failed to read %s: %w", info.Path, err)
	}

	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		// 이미 설정된 프로세스 환경 변수는 덮어쓰지 않는다
		if err := godotenv.Load(envFile); err != nil {
			return nil, info, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		info.EnvFile = envFile
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}
	if err := Validate(config); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) error {
	o := envOverrides{
		Port:           config.Server.Port,
		DevMode:        config.Server.DevMode,
		CORSOrigins:    config.Server.CORSOrigins,
		DataDir:        config.Data.DataDir,
		DBFile:         config.Data.DBFile,
		LogLevel:       config.Log.Level,
		LogFormat:      config.Log.Format,
		LogFile:        config.Log.File,
		HeaderScanRows: config.Import.HeaderScanRows,
		MaxUploadMB:    config.Import.MaxUploadMB,
		OpsTeam:        config.Sellers.OpsTeam,
		Departed:       config.Sellers.Departed,
	}
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if os.Getenv("WEEKLYDASH_PORT") != "" {
		info.PortSpecified = true
	}
	config.Server.Port = o.Port
	config.Server.DevMode = o.DevMode
	config.Server.CORSOrigins = o.CORSOrigins
	config.Data.DataDir = o.DataDir
	config.Data.DBFile = o.DBFile
	config.Log.Level = o.LogLevel
	config.Log.Format = o.LogFormat
	config.Log.File = o.LogFile
	config.Import.HeaderScanRows = o.HeaderScanRows
	config.Import.MaxUploadMB = o.MaxUploadMB
	config.Sellers.OpsTeam = o.OpsTeam
	config.Sellers.Departed = o.Departed
	return nil
}

var validate = validator.New()

// Validate 설정 값 범위 검사
func Validate(config *AppConfig) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig 실행 파일 옆 config.toml 로드
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig config.toml 로 저장
func SaveConfig(config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(exeDirOrDot(), "config.toml"), data, 0644)
}

// ResolveDataDir 상대 경로면 실행 파일 디렉터리 기준
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDirOrDot(), config.Data.DataDir)
}

// EnsureDataDir 데이터 디렉터리와 하위 디렉터리(uploads, exports) 생성
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	for _, subdir := range []string{"uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

// DBPath SQLite 파일 경로
func DBPath(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config), config.Data.DBFile)
}

// GetDataPath 데이터 디렉터리 아래 파일 경로
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}

// LoggerConfig 로그 설정. 상대 경로 로그 파일은 데이터 디렉터리 아래에 둔다.
func LoggerConfig(config *AppConfig) logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = config.Log.Level
	lc.Format = config.Log.Format
	if config.Log.MaxSizeMB > 0 {
		lc.MaxSizeMB = config.Log.MaxSizeMB
	}
	if config.Log.MaxBackups > 0 {
		lc.MaxBackups = config.Log.MaxBackups
	}
	if f := config.Log.File; f != "" {
		if !filepath.IsAbs(f) {
			f = filepath.Join(ResolveDataDir(config), f)
		}
		lc.File = f
	}
	return lc
}
