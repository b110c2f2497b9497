package models

// Doctor is a catalog entry: who can be booked and when they work.
// Days hold lowercase weekday names; hours cover [StartHour, EndHour).
type Doctor struct {
	ID        string   `mapstructure:"id" json:"id" yaml:"id"`
	Name      string   `mapstructure:"name" json:"name" yaml:"name"`
	Specialty string   `mapstructure:"specialty" json:"specialty" yaml:"specialty"`
	Days      []string `mapstructure:"days" json:"days" yaml:"days"`
	StartHour int      `mapstructure:"start_hour" json:"startHour" yaml:"start_hour"`
	EndHour   int      `mapstructure:"end_hour" json:"endHour" yaml:"end_hour"`
}
