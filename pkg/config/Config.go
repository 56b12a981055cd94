package config

import "strings"
import "time"

import "github.com/spf13/viper"

import "tsquorum/pkg/logger"
import "tsquorum/pkg/psconnector"
import "tsquorum/pkg/tserr"

//=========================================== Configuration


var Log = clog.NewCustomLog("Config")


type ConnType string

const (
	ConnTypeActive ConnType = "active"
	ConnTypePassive ConnType = "passive"
)

type Config struct {
	PageServerHosts []string
	RemoteStorage bool
	QuorumConsensus bool
	DBName string
	MetricsAddr string
	ConnType ConnType
	BootTimeout time.Duration
}

/*
	Load reads configuration from environment variables, following the
	teacher stack's viper-based config idiom (bound env vars over a flag
	default, not a config file -- this service is meant to run as a
	container with env-injected settings).
*/

func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("remote_storage", true)
	v.SetDefault("er_log_quorum_consensus", true)
	v.SetDefault("db_name", "tsquorum")
	v.SetDefault("metrics_addr", ":9477")
	v.SetDefault("conn_type", string(ConnTypeActive))
	v.SetDefault("boot_timeout_seconds", 30)

	for _, key := range []string{
		"page_server_hosts", "remote_storage", "er_log_quorum_consensus",
		"db_name", "metrics_addr", "conn_type", "boot_timeout_seconds",
	} {
		v.BindEnv(key)
	}

	remoteStorage := v.GetBool("remote_storage")

	rawHosts := v.GetString("page_server_hosts")
	hosts, hostErrs := psconnector.ParseHostList(rawHosts, remoteStorage)

	for _, hostErr := range hostErrs {
		if len(hosts) == 0 && remoteStorage { return nil, hostErr }
		Log.Warn("config: discarding invalid page server host entry:", hostErr.Error())
	}

	connType := ConnType(v.GetString("conn_type"))
	if connType != ConnTypeActive && connType != ConnTypePassive { return nil, tserr.ErrInvalidConnectionState }

	return &Config{
		PageServerHosts: hosts,
		RemoteStorage: remoteStorage,
		QuorumConsensus: v.GetBool("er_log_quorum_consensus"),
		DBName: v.GetString("db_name"),
		MetricsAddr: v.GetString("metrics_addr"),
		ConnType: connType,
		BootTimeout: time.Duration(v.GetInt("boot_timeout_seconds")) * time.Second,
	}, nil
}
