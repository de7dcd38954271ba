package config

// GetRedisURL returns the Redis address used for session storage,
// or an empty string when Redis is not configured
func GetRedisURL() string {
	return GetEnvOrDefault("REDIS_URL", "")
}

// GetRedisPassword returns the Redis password, if any
func GetRedisPassword() string {
	return GetEnvOrDefault("REDIS_PASSWORD", "")
}
