package views

import "embed"

// Content holds our static web server content.
//
//go:embed templates/*
var Content embed.FS
