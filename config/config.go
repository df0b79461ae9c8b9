package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBAutoMigrate      bool // 启动时执行建表语句
	JWTSecret          string
	LogLevel           string
	HTTPAddr           string
	FrontendURL        string
	StorageDriver      string // local, s3, gcs
	LocalStoragePath   string
	S3Region           string
	S3Bucket           string
	GCSProjectID       string
	GCSBucketName      string
	GCSCredentialsFile string

	// 订单状态白名单，为空时允许任意非空状态
	OrderStatusAllowlist []string
	// 是否按状态流转表校验订单状态变更
	OrderEnforceTransitions bool

	RateLimitRPS   float64
	RateLimitBurst int
	// 可信反向代理的 IP 或 CIDR，为空时不信任任何代理，限流按连接地址计算
	TrustedProxies []string
	Debug          bool // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置
func Init() {
	// 加载 .env 文件
	err := godotenv.Load()
	if err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	AppConfig = Load()

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("应用程序运行在生产模式")
	}

	log.Printf("配置加载完成。数据库：%s:%s，存储驱动：%s", AppConfig.DBHost, AppConfig.DBPort, AppConfig.StorageDriver)
}

// Load 从环境变量中读取配置，不做校验
func Load() Config {
	return Config{
		DBHost:                  getEnv("DB_HOST", ""),
		DBPort:                  getEnv("DB_PORT", "3306"),
		DBUser:                  getEnv("DB_USER", ""),
		DBPassword:              getEnv("DB_PASSWORD", ""),
		DBName:                  getEnv("DB_NAME", ""),
		DBAutoMigrate:           getEnvAsBool("DB_AUTO_MIGRATE", false),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		FrontendURL:             getEnv("FRONTEND_URL", "http://localhost:5173"),
		StorageDriver:           strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		LocalStoragePath:        getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		S3Region:                getEnv("S3_REGION", "us-west-2"),
		S3Bucket:                getEnv("S3_BUCKET", ""),
		GCSProjectID:            getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:           getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile:      getEnv("GCS_CREDENTIALS_FILE", ""),
		OrderStatusAllowlist:    getEnvAsList("ORDER_STATUS_ALLOWLIST"),
		OrderEnforceTransitions: getEnvAsBool("ORDER_ENFORCE_TRANSITIONS", false),
		RateLimitRPS:            getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:          getEnvAsInt("RATE_LIMIT_BURST", 5),
		TrustedProxies:          getEnvAsList("TRUSTED_PROXIES"),
		Debug:                   getEnvAsBool("DEBUG", false),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

// getEnvAsList 解析逗号分隔的列表，忽略空项
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateConfig() {
	if AppConfig.DBHost == "" || AppConfig.DBUser == "" || AppConfig.DBName == "" {
		log.Fatal("错误：数据库配置不完整")
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("错误：JWT密钥未设置")
	}
	switch AppConfig.StorageDriver {
	case "local":
	case "s3":
		if AppConfig.S3Bucket == "" {
			log.Fatal("错误：S3存储桶未设置")
		}
	case "gcs":
		if AppConfig.GCSBucketName == "" {
			log.Fatal("错误：GCS存储桶未设置")
		}
	default:
		log.Fatalf("错误：未知的存储驱动 %s", AppConfig.StorageDriver)
	}
}
