package notifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"PriceSentinel/internal/model"
	"PriceSentinel/internal/recorder"
)

// insufficientData marks indicator fields the window cannot support yet.
// Absent values are always rendered with this marker, never as 0.
const insufficientData = "数据不足"

// DisplayPair converts an API pair ("HSK_USDT") to its display form ("HSK/USDT").
func DisplayPair(pair string) string {
	return strings.Replace(pair, "_", "/", 1)
}

func trendLabel(t model.Trend) string {
	switch t {
	case model.TrendBullish:
		return "看涨"
	case model.TrendBearish:
		return "看跌"
	default:
		return "中性"
	}
}

func fmtOpt(v *float64, format string) string {
	if v == nil {
		return insufficientData
	}
	return fmt.Sprintf(format, *v)
}

// FormatReport renders one cycle's quote, indicator snapshot and optional
// K-line summary into the notification payload.
func FormatReport(pair string, q *model.Quote, snap *model.IndicatorSnapshot, ks *model.CandleSummary) string {
	var b strings.Builder

	quoteCcy := "USDT"
	if parts := strings.SplitN(pair, "_", 2); len(parts) == 2 {
		quoteCcy = parts[1]
	}
	b.WriteString(fmt.Sprintf("系统通知: 价格更新 %s 当前为 %.6f %s (24h: %+.2f%%)\n",
		DisplayPair(pair), q.Sample.Price, quoteCcy, q.ChangePct24h))

	ta := []string{
		fmt.Sprintf("趋势=%s", trendLabel(snap.Trend)),
		fmt.Sprintf("SMA=%s", fmtOpt(snap.SMA, "%.6f")),
		fmt.Sprintf("EMA=%s", fmtOpt(snap.EMA, "%.6f")),
		fmt.Sprintf("RSI=%s", fmtOpt(snap.RSI, "%.2f")),
		fmt.Sprintf("支撑=%s", fmtOpt(snap.Support, "%.6f")),
		fmt.Sprintf("阻力=%s", fmtOpt(snap.Resistance, "%.6f")),
		fmt.Sprintf("波动率=%s", fmtOpt(snap.Volatility, "%.6f")),
		fmt.Sprintf("动量=%s", fmtOpt(snap.Momentum, "%+.6f")),
	}
	b.WriteString("技术分析: " + strings.Join(ta, ", ") + "\n")

	if ks != nil {
		b.WriteString(fmt.Sprintf("K线分析: 趋势=%s, 涨跌=%+.2f%%, 波动率=%.6f, 支撑=%.6f, 阻力=%.6f\n",
			trendLabel(ks.Trend), ks.ChangePct, ks.Volatility, ks.Support, ks.Resistance))
	} else {
		b.WriteString("K线分析: " + insufficientData + "\n")
	}

	b.WriteString(interpret(snap, ks))
	return b.String()
}

// interpret builds the 市场解读 line from the computed indicators.
func interpret(snap *model.IndicatorSnapshot, ks *model.CandleSummary) string {
	var parts []string

	switch snap.Trend {
	case model.TrendBullish:
		parts = append(parts, "短期趋势: 看涨，价格可能继续上涨")
	case model.TrendBearish:
		parts = append(parts, "短期趋势: 看跌，价格可能继续下跌")
	}

	if snap.SMA != nil {
		if snap.Price > *snap.SMA {
			parts = append(parts, fmt.Sprintf("价格高于SMA(%.6f)，看涨信号", *snap.SMA))
		} else {
			parts = append(parts, fmt.Sprintf("价格低于SMA(%.6f)，看跌信号", *snap.SMA))
		}
	}

	if snap.RSI != nil {
		switch {
		case *snap.RSI > 70:
			parts = append(parts, fmt.Sprintf("RSI超买(%.2f)，可能出现回调", *snap.RSI))
		case *snap.RSI < 30:
			parts = append(parts, fmt.Sprintf("RSI超卖(%.2f)，可能出现反弹", *snap.RSI))
		default:
			parts = append(parts, fmt.Sprintf("RSI中性(%.2f)，趋势稳定", *snap.RSI))
		}
	}

	if snap.Support != nil && snap.Resistance != nil {
		switch {
		case snap.Price <= *snap.Support*1.001:
			parts = append(parts, fmt.Sprintf("接近支撑位%.6f，可能获得支撑", *snap.Support))
		case snap.Price >= *snap.Resistance*0.999:
			parts = append(parts, fmt.Sprintf("接近阻力位%.6f，可能遇到阻力", *snap.Resistance))
		default:
			parts = append(parts, fmt.Sprintf("价格在支撑%.6f与阻力%.6f之间运行", *snap.Support, *snap.Resistance))
		}
	}

	if snap.Momentum != nil && snap.Price > 0 {
		momPct := *snap.Momentum / snap.Price * 100
		if math.Abs(momPct) > 5 {
			direction := "上行"
			if momPct < 0 {
				direction = "下行"
			}
			parts = append(parts, fmt.Sprintf("动量强劲(%+.2f%%)，%s趋势明显", momPct, direction))
		} else if math.Abs(momPct) < 1 {
			parts = append(parts, fmt.Sprintf("动量较弱(%+.2f%%)，可能盘整", momPct))
		}
	}

	if ks != nil {
		parts = append(parts, fmt.Sprintf("K线趋势: %s (6小时周期)", trendLabel(ks.Trend)))
	}

	if len(parts) == 0 {
		parts = append(parts, "技术指标不足，建议观望")
	}
	return "市场解读: " + strings.Join(parts, "；")
}

// FormatDigest renders the daily sample summary.
func FormatDigest(pair string, stats *recorder.SampleStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 每日摘要 | %s | %s\n", DisplayPair(pair), time.Now().Format("2006-01-02")))
	if stats == nil || stats.Count == 0 {
		b.WriteString("过去24小时无采样数据")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("采样数: %d\n", stats.Count))
	b.WriteString(fmt.Sprintf("最高: %.6f | 最低: %.6f\n", stats.Max, stats.Min))
	changePct := 0.0
	if stats.First > 0 {
		changePct = (stats.Last - stats.First) / stats.First * 100
	}
	b.WriteString(fmt.Sprintf("期初: %.6f | 期末: %.6f (%+.2f%%)", stats.First, stats.Last, changePct))
	return b.String()
}
