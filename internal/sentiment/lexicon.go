// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package sentiment

// Polarity word lists for the primary scorer. Skewed toward the
// vocabulary of video comments and danmaku; English terms cover the
// mixed-language comments common on the platform.
var (
	positiveWords = wordSet(
		"好", "棒", "赞", "喜欢", "爱", "精彩", "优秀", "厉害", "强", "牛",
		"牛逼", "好看", "好听", "有趣", "搞笑", "感动", "支持", "推荐", "满意",
		"完美", "惊艳", "用心", "良心", "硬核", "高质量", "学到了", "涨知识",
		"awsl", "yyds", "good", "great", "nice", "love", "best", "amazing",
	)

	negativeWords = wordSet(
		"差", "烂", "垃圾", "讨厌", "无聊", "失望", "难看", "难听", "恶心",
		"糟糕", "敷衍", "标题党", "退钱", "劝退", "拉胯", "翻车", "骗", "假",
		"坑", "bad", "worst", "hate", "boring", "awful",
	)
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
