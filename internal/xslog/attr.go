package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/garrettladley/moyo/internal/version"
	"github.com/garrettladley/moyo/internal/xhttp"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func ErrorAny(err any) slog.Attr {
	return slog.Any(keyError, err)
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func Stack() slog.Attr {
	const stackKey = "stack"
	return slog.String(stackKey, string(debug.Stack()))
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func RequestMethod(r *http.Request) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, r.Method)
}

func RequestPath(r *http.Request) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, r.URL.Path)
}

func IP(ip string) slog.Attr {
	const ipKey = "ip"
	return slog.String(ipKey, ip)
}

func RequestIP(r *http.Request) slog.Attr {
	return IP(xhttp.GetRequestIP(r))
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func ClientVersion(clientVersion string) slog.Attr {
	const clientVersionKey = "client_version"
	return slog.String(clientVersionKey, clientVersion)
}

func MinVersion(minVersion string) slog.Attr {
	const minVersionKey = "min_version"
	return slog.String(minVersionKey, minVersion)
}

func UserID(id int64) slog.Attr {
	const userIDKey = "user_id"
	return slog.Int64(userIDKey, id)
}

func Email(email string) slog.Attr {
	const emailKey = "email"
	return slog.String(emailKey, email)
}

func ReadingID(id int64) slog.Attr {
	const readingIDKey = "reading_id"
	return slog.Int64(readingIDKey, id)
}

func HealthFactorID(id int64) slog.Attr {
	const healthFactorIDKey = "health_factor_id"
	return slog.Int64(healthFactorIDKey, id)
}

func MedicationID(id int64) slog.Attr {
	const medicationIDKey = "medication_id"
	return slog.Int64(medicationIDKey, id)
}

func InsightID(id int64) slog.Attr {
	const insightIDKey = "insight_id"
	return slog.Int64(insightIDKey, id)
}

func Category(category string) slog.Attr {
	const categoryKey = "category"
	return slog.String(categoryKey, category)
}

func Period(period string) slog.Attr {
	const periodKey = "period"
	return slog.String(periodKey, period)
}

func NotificationType(t string) slog.Attr {
	const notificationTypeKey = "notification_type"
	return slog.String(notificationTypeKey, t)
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Start(t time.Time) slog.Attr {
	const startKey = "start"
	return slog.Time(startKey, t)
}

func End(t time.Time) slog.Attr {
	const endKey = "end"
	return slog.Time(endKey, t)
}

func Migration(name string) slog.Attr {
	const migrationKey = "migration"
	return slog.String(migrationKey, name)
}

func Backoff(d time.Duration) slog.Attr {
	const backoffKey = "backoff"
	return slog.Duration(backoffKey, d)
}

func Data(data string) slog.Attr {
	const dataKey = "data"
	return slog.String(dataKey, data)
}

func Type(t string) slog.Attr {
	const typeKey = "type"
	return slog.String(typeKey, t)
}

func Bytes(n int) slog.Attr {
	const bytesKey = "bytes"
	return slog.Int(bytesKey, n)
}
