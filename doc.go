// Package listenkit 是面向音乐流媒体的听众智能引擎：
//
//   - 个性化曲目推荐：多候选池召回（相似艺人/流派热榜/协同过滤）+
//     内容相似度排序 + 心情过滤，每条推荐带可解释的理由与置信度
//   - 听众分群：K-means 行为聚类 + 启发式分群标注
//   - 播放流完整性：机器人/刷量/异常重复模式检测
//   - 艺人潜力：增长与互动信号合成病毒传播潜力，产出新星榜
//
// Engine 是唯一入口，所有能力都通过它暴露：
//
//	eng := listenkit.New(events, profiles,
//		listenkit.WithKeyValueStore(kv),
//		listenkit.WithLogger(logger),
//	)
//	recs, err := eng.Recommendations(ctx, "user_1", 20, core.RecommendOptions{})
//
// 设计约定：推荐、检测、榜单都是尽力而为的旁路能力，
// 单个依赖故障降级为空结果或默认画像，不把存储错误抛给上游。
package listenkit
