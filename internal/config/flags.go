package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-cipher-key credential cipher key material
//	-sign-key payment signature signing key
//	-network default payment network
//	-pay-to receiving account (shard.realm.num)
//	-price resource price in HBAR
//	-resource paid resource identifier
//	-fee-payer fee payer account
//	-facilitator-url facilitator base URL
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var cipherKey string
	var signKey string
	var network string
	var payTo string
	var priceHbar string
	var resource string
	var feePayer string
	var facilitatorURL string
	var requestTimeout time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&cipherKey, "cipher-key", "", "Credential cipher key")
	flag.StringVar(&signKey, "sign-key", "", "Payment signature signing key")
	flag.StringVar(&network, "network", "", "Default payment network")
	flag.StringVar(&payTo, "pay-to", "", "Receiving account (shard.realm.num)")
	flag.StringVar(&priceHbar, "price", "", "Resource price in HBAR")
	flag.StringVar(&resource, "resource", "", "Paid resource identifier")
	flag.StringVar(&feePayer, "fee-payer", "", "Fee payer account")
	flag.StringVar(&facilitatorURL, "facilitator-url", "", "Facilitator base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			CipherKey: cipherKey,
			SignKey:   signKey,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Payments: Payments{
			Network:  network,
			PayTo:    payTo,
			PriceHbar: priceHbar,
			Resource: resource,
			FeePayer: feePayer,
		},
		Facilitator: Facilitator{
			BaseURL: facilitatorURL,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
