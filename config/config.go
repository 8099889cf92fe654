package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 存储所有配置信息
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// 数据库配置
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	// MinIO对象存储配置
	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioRegion    string `mapstructure:"MINIO_REGION"`

	// 对外暴露的基础URL，用于拼接图片访问地址
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// JWT配置
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTExpireMinutes int    `mapstructure:"JWT_EXPIRE_MINUTES"`

	// 密码哈希强度，0表示按环境取默认值
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// CORS允许的来源，逗号分隔
	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`
}

// LoadConfig 从环境变量或配置文件加载配置
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("ENVIRONMENT", "local")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("MINIO_BUCKET", "kanban-images")
	viper.SetDefault("MINIO_REGION", "us-east-1")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("JWT_EXPIRE_MINUTES", 60)
	viper.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")

	err = viper.ReadInConfig()
	if err != nil {
		// 允许配置文件不存在，此时会从环境变量中读取
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	// 云环境提高哈希强度，本地环境优先开发速度
	if config.BcryptCost == 0 {
		if config.Environment == "local" {
			config.BcryptCost = 10
		} else {
			config.BcryptCost = 12
		}
	}

	return
}

// GetDBConnString 返回数据库连接字符串
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// GetCORSOrigins 返回CORS允许来源列表
func (c *Config) GetCORSOrigins() []string {
	origins := strings.Split(c.CORSAllowOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
