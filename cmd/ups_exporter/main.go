// ups_exporter serves Megatec UPS status as Prometheus metrics.
package main

import (
	"flag"
	"net/http"
	"os"
	"strconv"
	"time"

	megatec "github.com/piotrmaciejbednarski/megatec-ups-control"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen          string `yaml:"listen"`
	VendorID        string `yaml:"vendor_id"`
	ProductID       string `yaml:"product_id"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	NoAck           bool   `yaml:"no_ack"`
}

func DefaultConfig() *Config {
	return &Config{
		Listen:          ":2112",
		VendorID:        "0x0001",
		ProductID:       "0x0000",
		IntervalSeconds: 30,
	}
}

func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

var (
	inputVoltage = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "megatec_input_voltage_volts",
		Help: "Input line voltage.",
	})

	inputFaultVoltage = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "megatec_input_fault_voltage_volts",
		Help: "Input voltage recorded at the last fault.",
	})

	outputVoltage = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "megatec_output_voltage_volts",
		Help: "Output voltage.",
	})

	outputLoad = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "megatec_output_load_percent",
		Help: "Output load as percent of rated maximum current.",
	})

	inputFrequency = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "megatec_input_frequency_hertz",
		Help: "Input line frequency.",
	})

	batteryVoltage = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "megatec_battery_voltage_volts",
		Help: "Battery voltage.",
	})

	temperature = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "megatec_temperature_celsius",
		Help: "Internal temperature.",
	})

	up = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "megatec_up",
		Help: "Whether the last status poll succeeded.",
	})

	polls = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "megatec_polls_total",
		Help: "Status polls attempted.",
	})

	pollErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "megatec_poll_errors_total",
		Help: "Status polls that failed.",
	})
)

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	config := DefaultConfig()
	if *configPath != "" {
		c, err := LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		config = c
	}

	vid, err := parseID(config.VendorID)
	if err != nil {
		log.Fatalf("Invalid vendor_id %q: %v", config.VendorID, err)
	}
	pid, err := parseID(config.ProductID)
	if err != nil {
		log.Fatalf("Invalid product_id %q: %v", config.ProductID, err)
	}

	ups, err := megatec.Open(vid, pid)
	if err != nil {
		log.Fatalf("Failed to open UPS: %v", err)
	}
	defer ups.Close()

	if name, err := ups.Name(); err != nil {
		log.Warnf("Identification read failed: %v", err)
	} else {
		log.Infof("Exporting UPS %q", name)
	}

	prometheus.MustRegister(
		inputVoltage,
		inputFaultVoltage,
		outputVoltage,
		outputLoad,
		inputFrequency,
		batteryVoltage,
		temperature,
		up,
		polls,
		pollErrors,
	)

	go pollLoop(log, ups, config)

	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	log.Infof("Listening on %s", config.Listen)
	if err := http.ListenAndServe(config.Listen, nil); err != nil {
		log.Fatalf("Metrics server failed: %v", err)
	}
}

func pollLoop(log *logrus.Logger, ups *megatec.UPS, config *Config) {
	ticker := time.NewTicker(time.Duration(config.IntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		polls.Inc()
		status, err := readStatus(ups, config.NoAck)
		if err != nil {
			pollErrors.Inc()
			up.Set(0)
			log.Warnf("Status poll failed: %v", err)
		} else {
			up.Set(1)
			inputVoltage.Set(status.InputVoltage)
			inputFaultVoltage.Set(status.InputFaultVoltage)
			outputVoltage.Set(status.OutputVoltage)
			outputLoad.Set(status.OutputCurrent)
			inputFrequency.Set(status.InputFrequency)
			batteryVoltage.Set(status.BatteryVoltage)
			temperature.Set(status.Temperature)
			log.Debugf("Status: %+v", status)
		}
		<-ticker.C
	}
}

func readStatus(ups *megatec.UPS, noAck bool) (*protocol.Status, error) {
	if noAck {
		return ups.StatusNoAck()
	}
	return ups.Status()
}

func parseID(s string) (uint16, error) {
	id, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}
