package mdb

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrInvalidTarget = errors.New("connection target not valid")

// Target describes where to connect: either a full URI or discrete parameters.
// When URI is set it takes precedence over Host and Port,
// credentials are still applied on top of it if a Username is provided.
type Target struct {
	URI        string `env:"MONGO_URI"`
	Host       string `env:"MONGO_HOST" envDefault:"localhost"`
	Port       int    `env:"MONGO_PORT" envDefault:"27017"`
	Username   string `env:"MONGO_USERNAME"`
	Password   string `env:"MONGO_PASSWORD"`
	AuthSource string `env:"MONGO_AUTH_SOURCE" envDefault:"admin"`
	Database   string `env:"MONGO_DATABASE" envDefault:"biblioteca"`
}

// TargetFromEnv loads a connection target from MONGO_* environment variables.
func TargetFromEnv() (*Target, error) {
	var target Target
	if err := env.Parse(&target); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, err.Error())
	}

	if err := target.Validate(); err != nil {
		return nil, err
	}
	return &target, nil
}

// Validate checks that the target can be turned into client options.
func (t *Target) Validate() error {
	problems := make([]string, 0)

	if t.Database == "" {
		problems = append(problems, "database name is empty")
	}
	if t.URI == "" {
		if t.Host == "" {
			problems = append(problems, "host is empty")
		}
		if t.Port < 1 || t.Port > 65535 {
			problems = append(problems, "port is out of valid range (1-65535)")
		}
	}
	if t.Password != "" && t.Username == "" {
		problems = append(problems, "password provided without username")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTarget, strings.Join(problems, ", "))
	}
	return nil
}

// Address returns the host:port pair used when no URI is set.
func (t *Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ClientOptions converts the target into Mongo client options.
func (t *Target) ClientOptions() *options.ClientOptions {
	opts := options.Client()
	if t.URI != "" {
		opts.ApplyURI(t.URI)
	} else {
		opts.ApplyURI("mongodb://" + t.Address())
	}

	if t.Username != "" {
		opts.SetAuth(options.Credential{
			AuthSource: t.AuthSource,
			Username:   t.Username,
			Password:   t.Password,
		})
	}

	return opts
}

// Redacted returns a description of the target safe for logging.
func (t *Target) Redacted() string {
	where := t.Address()
	if t.URI != "" {
		where = "uri"
	}
	if t.Username != "" {
		return fmt.Sprintf("%s@%s/%s (authSource=%s)", t.Username, where, t.Database, t.AuthSource)
	}
	return fmt.Sprintf("%s/%s", where, t.Database)
}
