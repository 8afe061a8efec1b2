package onboard

import (
	"io/ioutil"
	"time"

	"github.com/CodedInternet/gominer/calcs"
	errs "github.com/CodedInternet/gominer/onboard/errors"
	"github.com/CodedInternet/gominer/onboard/mechatronics"
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	MODE_PRODUCTION = "production"
	MODE_TEST       = "test"
	MODE_PRINT      = "print"

	DRIVER_ANALOG     = "analog"
	DRIVER_HOVERBOARD = "hoverboard"
	DRIVER_ROBOCLAW   = "roboclaw"
	DRIVER_ARDUINO    = "arduino"
)

type RobotConfig struct {
	Mode            string        `yaml:"mode" env:"MINER_MODE"`
	Bench           bool          `yaml:"bench" env:"MINER_BENCH"`
	HTTP            string        `yaml:"http" env:"MINER_HTTP"`
	QueueDepth      int           `yaml:"queue_depth" env:"MINER_QUEUE_DEPTH"`
	CyclePeriod     time.Duration `yaml:"cycle_period" env:"MINER_CYCLE_PERIOD"`
	MonitorPeriod   time.Duration `yaml:"monitor_period" env:"MINER_MONITOR_PERIOD"`
	StatusRate      int           `yaml:"status_rate" env:"MINER_STATUS_RATE"`
	DebounceSamples int           `yaml:"debounce_samples" env:"MINER_DEBOUNCE_SAMPLES"`
	ActiveLow       bool          `yaml:"active_low" env:"MINER_ACTIVE_LOW"`

	Limits  LimitsConfig  `yaml:"limits" envPrefix:"MINER_LIMIT_"`
	Rates   RatesConfig   `yaml:"rates" envPrefix:"MINER_RATE_"`
	Motors  MotorsConfig  `yaml:"motors"`
	Serial  SerialConfig  `yaml:"serial" envPrefix:"MINER_SERIAL_"`
	Journal JournalConfig `yaml:"journal" envPrefix:"MINER_JOURNAL_"`
}

// LimitsConfig names the input pin of each limit switch. An empty pin leaves
// that limit permanently clear.
type LimitsConfig struct {
	UpperDumper      string `yaml:"upper_dumper" env:"UPPER_DUMPER"`
	LowerDumper      string `yaml:"lower_dumper" env:"LOWER_DUMPER"`
	UpperLeftIntake  string `yaml:"upper_left_intake" env:"UPPER_LEFT_INTAKE"`
	LowerLeftIntake  string `yaml:"lower_left_intake" env:"LOWER_LEFT_INTAKE"`
	UpperRightIntake string `yaml:"upper_right_intake" env:"UPPER_RIGHT_INTAKE"`
	LowerRightIntake string `yaml:"lower_right_intake" env:"LOWER_RIGHT_INTAKE"`
}

// RatesConfig holds the nominal speed magnitude of each fixed-speed action.
type RatesConfig struct {
	Dumping   float32 `yaml:"dumping" env:"DUMPING"`
	Resetting float32 `yaml:"resetting" env:"RESETTING"`
	Digging   float32 `yaml:"digging" env:"DIGGING"`
	Raising   float32 `yaml:"raising" env:"RAISING"`
	Lowering  float32 `yaml:"lowering" env:"LOWERING"`
}

type MotorConfig struct {
	Driver    string `yaml:"driver"`
	Pwm       string `yaml:"pwm"`
	Direction string `yaml:"direction"`
	Channel   string `yaml:"channel"`
	Inverted  bool   `yaml:"inverted"`
	Period    uint32 `yaml:"period"`
	Neutral   uint32 `yaml:"neutral"`
	Span      uint32 `yaml:"span"`
}

// MotorSet is every physical motor behind one logical slot. In yaml it may be
// written as a single mapping or as a list.
type MotorSet []MotorConfig

func (ms *MotorSet) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []MotorConfig
	if err := unmarshal(&list); err == nil {
		*ms = list
		return nil
	}

	var single MotorConfig
	if err := unmarshal(&single); err != nil {
		return err
	}
	*ms = MotorSet{single}
	return nil
}

type MotorsConfig struct {
	DriveLeft     MotorSet `yaml:"drive_left"`
	DriveRight    MotorSet `yaml:"drive_right"`
	Dumper        MotorSet `yaml:"dumper"`
	Ladder        MotorSet `yaml:"ladder"`
	ActuatorLeft  MotorSet `yaml:"actuator_left"`
	ActuatorRight MotorSet `yaml:"actuator_right"`
}

type SerialConfig struct {
	Port     string `yaml:"port" env:"PORT"`
	Baud     int    `yaml:"baud" env:"BAUD"`
	Firmware string `yaml:"firmware" env:"FIRMWARE"`
}

type JournalConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

func DefaultConfig() RobotConfig {
	return RobotConfig{
		Mode:            MODE_TEST,
		HTTP:            "0.0.0.0:8080",
		QueueDepth:      mechatronics.DEFAULT_QUEUE_DEPTH,
		CyclePeriod:     mechatronics.DEFAULT_CYCLE_PERIOD,
		MonitorPeriod:   time.Millisecond,
		StatusRate:      10,
		DebounceSamples: 1,
		Rates: RatesConfig{
			Dumping:   1.0,
			Resetting: 1.0,
			Digging:   0.8,
			Raising:   0.6,
			Lowering:  0.6,
		},
	}
}

// ParseConfig decodes yaml over the defaults.
func ParseConfig(b []byte) (cfg RobotConfig, err error) {
	cfg = DefaultConfig()
	err = errors.Wrap(yaml.Unmarshal(b, &cfg), "unable to unmarshal yaml")
	return
}

// LoadConfig reads path (skipped when empty), applies MINER_* environment
// overrides and validates the result.
func LoadConfig(path string) (cfg RobotConfig, err error) {
	cfg = DefaultConfig()

	if path != "" {
		var b []byte
		b, err = ioutil.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "unable to read config %s", path)
		}
		if cfg, err = ParseConfig(b); err != nil {
			return
		}
	}

	if err = env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "unable to parse environment")
	}

	err = cfg.Validate()
	return
}

func (c RobotConfig) Validate() error {
	switch c.Mode {
	case MODE_PRODUCTION, MODE_TEST, MODE_PRINT:
	default:
		return errs.UnknownModeError{Mode: c.Mode}
	}

	if c.QueueDepth < 1 {
		return errors.Errorf("queue_depth must be at least 1, got %d", c.QueueDepth)
	}
	if c.CyclePeriod < 0 || c.MonitorPeriod < 0 {
		return errors.New("periods must not be negative")
	}
	if c.StatusRate < 1 {
		return errors.Errorf("status_rate must be at least 1, got %d", c.StatusRate)
	}

	for name, r := range map[string]float32{
		"dumping":   c.Rates.Dumping,
		"resetting": c.Rates.Resetting,
		"digging":   c.Rates.Digging,
		"raising":   c.Rates.Raising,
		"lowering":  c.Rates.Lowering,
	} {
		if !(r > 0) || !calcs.InUnitRange(r) {
			return errors.Errorf("rate %s must be within (0, 1], got %v", name, r)
		}
	}

	for slot, set := range c.Motors.slots() {
		for _, mc := range set {
			switch mc.Driver {
			case DRIVER_ANALOG, DRIVER_ARDUINO:
				if mc.Channel == "" {
					return errors.Errorf("motor %s: %s driver needs a channel", slot, mc.Driver)
				}
			case DRIVER_HOVERBOARD:
				if mc.Pwm == "" || mc.Direction == "" {
					return errors.Errorf("motor %s: hoverboard driver needs pwm and direction pins", slot)
				}
			case DRIVER_ROBOCLAW:
				if mc.Pwm == "" {
					return errors.Errorf("motor %s: roboclaw driver needs a pwm pin", slot)
				}
			default:
				return errors.Errorf("motor %s: no such driver %q", slot, mc.Driver)
			}
		}
	}

	return nil
}

func (m MotorsConfig) slots() map[string]MotorSet {
	return map[string]MotorSet{
		"drive_left":     m.DriveLeft,
		"drive_right":    m.DriveRight,
		"dumper":         m.Dumper,
		"ladder":         m.Ladder,
		"actuator_left":  m.ActuatorLeft,
		"actuator_right": m.ActuatorRight,
	}
}
