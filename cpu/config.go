package cpu

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	INSTRUCTION_WIDTH = 16 // Width of an instruction word.
	REGISTER_FIELD    = 4  // Width of a register address field.
)

// Config is the geometry of a processor.
type Config struct {
	RegisterWidth         uint `yaml:"register_width"`          // Width of PC, MAR and the register file.
	RegisterFileSize      int  `yaml:"register_file_size"`      // Number of registers.
	InstructionMemorySize int  `yaml:"instruction_memory_size"` // Instruction memory capacity, in words.
	DataMemorySize        int  `yaml:"data_memory_size"`        // Data memory capacity, in words.
	WordWidth             uint `yaml:"word_width"`              // Width of a memory word.
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		RegisterWidth:         16,
		RegisterFileSize:      16,
		InstructionMemorySize: 128,
		DataMemorySize:        128,
		WordWidth:             16,
	}
}

// ParseConfig decodes a YAML configuration. Unset fields keep their
// default values.
func ParseConfig(data []byte) (config Config, err error) {
	config = DefaultConfig()

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		err = errors.Join(ErrConfig, err)
		return
	}

	err = config.Validate()

	return
}

// Validate checks that the instruction layout can be executed with this
// geometry.
func (config Config) Validate() (err error) {
	switch {
	case config.WordWidth != INSTRUCTION_WIDTH:
		err = fmt.Errorf("%w: %v", ErrConfig, f("word width must be %d", INSTRUCTION_WIDTH))
	case config.RegisterWidth != INSTRUCTION_WIDTH:
		err = fmt.Errorf("%w: %v", ErrConfig, f("register width must be %d", INSTRUCTION_WIDTH))
	case config.RegisterFileSize < (1 << REGISTER_FIELD):
		err = fmt.Errorf("%w: %v", ErrConfig, f("register file needs at least %d registers", 1<<REGISTER_FIELD))
	case config.InstructionMemorySize < 1:
		err = fmt.Errorf("%w: %v", ErrConfig, f("instruction memory is empty"))
	case config.DataMemorySize < 1:
		err = fmt.Errorf("%w: %v", ErrConfig, f("data memory is empty"))
	}

	return
}
