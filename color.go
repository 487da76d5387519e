package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// 勾选高亮可用的颜色，配置里按色名引用
var highlightColors = map[string]text.Color{
	"black":   text.FgBlack,
	"red":     text.FgRed,
	"green":   text.FgGreen,
	"yellow":  text.FgYellow,
	"blue":    text.FgBlue,
	"magenta": text.FgMagenta,
	"cyan":    text.FgCyan,
	"white":   text.FgWhite,
}

// highlightText 按色名渲染高亮文本，未知色名退到黄色
func highlightText(content, colorName string) string {
	color, ok := highlightColors[strings.ToLower(colorName)]
	if !ok {
		color = text.FgYellow
	}
	return color.Sprint(content)
}

// highlightColorOrDefault 校验配置里的色名，无效时退回默认色
func highlightColorOrDefault(configColor, defaultColor string) string {
	if configColor == "" {
		return defaultColor
	}
	if _, ok := highlightColors[strings.ToLower(configColor)]; ok {
		return configColor
	}
	return defaultColor
}
