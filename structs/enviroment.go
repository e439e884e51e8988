package structs

import "time"

type EnviromentModel struct {
	App      app
	Server   server
	Database database
	RabbitMQ rabbitmq
	Log      log
	Router   router
	Auth     auth
	Storage  storage
}

type app struct {
	Name     string
	Timezone string
}

type server struct {
	AppAPI string
}

type database struct {
	Client      string
	MaxIdle     uint
	MaxLifeTime string
	MaxOpenConn uint
	User        string
	Password    string
	Host        string
	Db          string
	Params      string
	Port        string
	LogEnable   int
}

type rabbitmq struct {
	Enable int
	Domain string
	Queue  string
}

type log struct {
	Dir            string
	Level          string
	Stdout         int
	ElkEnable      int
	ElkIndex       string
	ElkURL         string
	LogstashEnable int
	LogstashURL    string
	LogstashIndex  string
}

type router struct {
	Port int
	Mode string
}

type auth struct {
	JwtSecret string
	TokenTTL  time.Duration
}

type storage struct {
	LocalPath string
}
