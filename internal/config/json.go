package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		CipherKey string `json:"cipher_key"`
		SignKey   string `json:"sign_key"`
		Version   string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Payments struct {
		Network           string `json:"network"`
		PayTo             string `json:"pay_to"`
		PriceHbar         string `json:"price_hbar"`
		Resource          string `json:"resource"`
		FeePayer          string `json:"fee_payer"`
		MaxTimeoutSeconds int    `json:"max_timeout_seconds"`
	} `json:"payments,omitempty"`

	Facilitator struct {
		BaseURL string   `json:"base_url"`
		Timeout Duration `json:"timeout"`
	} `json:"facilitator,omitempty"`

	Ledger struct {
		MainnetURL    string `json:"mainnet_url"`
		TestnetURL    string `json:"testnet_url"`
		PreviewnetURL string `json:"previewnet_url"`
	} `json:"ledger,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			CipherKey: jsonCfg.App.CipherKey,
			SignKey:   jsonCfg.App.SignKey,
			Version:   jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Payments: Payments{
			Network:           jsonCfg.Payments.Network,
			PayTo:             jsonCfg.Payments.PayTo,
			PriceHbar:         jsonCfg.Payments.PriceHbar,
			Resource:          jsonCfg.Payments.Resource,
			FeePayer:          jsonCfg.Payments.FeePayer,
			MaxTimeoutSeconds: jsonCfg.Payments.MaxTimeoutSeconds,
		},
		Facilitator: Facilitator{
			BaseURL: jsonCfg.Facilitator.BaseURL,
			Timeout: time.Duration(jsonCfg.Facilitator.Timeout),
		},
		Ledger: Ledger{
			MainnetURL:    jsonCfg.Ledger.MainnetURL,
			TestnetURL:    jsonCfg.Ledger.TestnetURL,
			PreviewnetURL: jsonCfg.Ledger.PreviewnetURL,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
