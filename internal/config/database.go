package config

// DBConfig addresses the MySQL database the tables are mirrored into.
type DBConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// LoadDBConfig reads the DB_* variables. Only the mirror needs them, so
// they are kept out of Config and JWT_SECRET is not required.
func LoadDBConfig() DBConfig {
	return DBConfig{
		User: envStr("DB_USER", "root"),
		Pass: envStr("DB_PASS", ""),
		Host: envStr("DB_HOST", "127.0.0.1"),
		Port: envStr("DB_PORT", "3306"),
		Name: envStr("DB_NAME", "learning_mentor"),
	}
}
