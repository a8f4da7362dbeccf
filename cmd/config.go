package cmd

type Config struct {
	HTTPPort              string
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBSslMode             string
	KafkaHosts            string
	KafkaParcelEventTopic string
	RedisAddr             string
	RedisPassword         string
	SMTPHost              string
	SMTPPort              string
	SMTPFrom              string
	SMTPUser              string
	SMTPPassword          string
	SystemActorID         string
}
