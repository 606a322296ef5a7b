package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Gemini struct {
	APIKey    string
	TextModel string
}

type VideoGen struct {
	BaseURL string
	APIKey  string
	Method  string
}

type ImageGen struct {
	BaseURL string
	APIKey  string
}

type Config struct {
	PostgresURI   string
	RedisURI      string
	FrontendURL   string
	R2            R2
	Gemini        Gemini
	VideoGen      VideoGen
	ImageGen      ImageGen
	YoutubeAPIKey string
	VKAccessToken string
	TrendFeeds    string
	SecretKey     string
	CookieName    string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", ""),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		Gemini: Gemini{
			APIKey:    getEnv("GEMINI_API_KEY", ""),
			TextModel: getEnv("GEMINI_TEXT_MODEL", "gemini-1.5-flash"),
		},
		VideoGen: VideoGen{
			BaseURL: getEnv("VIDEOGEN_BASE_URL", ""),
			APIKey:  getEnv("VIDEOGEN_API_KEY", ""),
			Method:  getEnv("VIDEOGEN_METHOD", "wan"),
		},
		ImageGen: ImageGen{
			BaseURL: getEnv("IMAGEGEN_BASE_URL", ""),
			APIKey:  getEnv("IMAGEGEN_API_KEY", ""),
		},
		YoutubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
		VKAccessToken: getEnv("VK_ACCESS_TOKEN", ""),
		TrendFeeds:    getEnv("TREND_FEEDS", ""),
		SecretKey:     getEnv("SECRET_KEY", ""),
		CookieName:    getEnv("COOKIE_NAME", "zavod_session"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
