package config

import "strings"

var envKeyReplacer = strings.NewReplacer(".", "_")
