package services

import (
	"regexp"
	"strconv"
)

// 匹配Markdown图片语法 ![alt](url)，URL末段为数字图片ID
var imageRefPattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*/(\d+)\)`)

// ExtractImageIDs 从Markdown文本中按出现顺序提取引用的图片ID。
// 重复引用会原样保留，非法数字段会被跳过。纯函数，无副作用。
func ExtractImageIDs(content string) []int64 {
	ids := []int64{}
	if content == "" {
		return ids
	}

	for _, match := range imageRefPattern.FindAllStringSubmatch(content, -1) {
		id, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			// 数字超出范围等情况直接忽略
			continue
		}
		ids = append(ids, id)
	}

	return ids
}
