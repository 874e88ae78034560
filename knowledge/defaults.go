package knowledge

// DefaultConfig returns the curated tables shipped with the correlator
func DefaultConfig() Config {
	return Config{
		AliasTable: map[string][]string{
			// java
			"log4j2": {"log4j", "apache-log4j"},
			"slf4j":  {"slg4j", "simple-logging-facade-for-java"},
			"spring": {"spring-framework", "spring-boot"},
			// python
			"pillow": {"pil", "image-library"},
			"pyyaml": {"yaml", "pyyaml"},
			// javascript
			"lodash": {"underscore.js"},
			"moment": {"momentjs"},
			// native
			"openssl": {"ssl", "tls", "boringssl", "libressl"},
			"curl":    {"libcurl"},
			"sqlite":  {"sqlite3"},
		},
		DomainKeywords: map[string][]string{
			"log4j":        {"logging", "logger", "appender", "logback", "slf4j", "log level"},
			"logback":      {"logging", "logger", "sl4fj", "appender"},
			"spring":       {"spring", "framework", "mvc", "boot", "bean", "context", "annotation"},
			"django":       {"django", "web", "framework", "orm", "template", "middleware"},
			"flask":        {"flask", "micro", "framework", "route", "blueprint"},
			"express":      {"express", "middleware", "route", "handler"},
			"mysql":        {"database", "sql", "connector", "jdbc"},
			"postgresql":   {"postgres", "database", "sql", "psycopg"},
			"openssl":      {"ssl", "tls", "encryption", "crypto", "certificate", "handshake"},
			"bouncycastle": {"crypto", "encryption", "provider", "security"},
			"requests":     {"http", "request", "urllib", "api", "client"},
			"httpx":        {"http", "request", "async", "api"},
			"jackson":      {"json", "serialization", "databind"},
			"gson":         {"json", "serialization", "google"},
		},
		KnownCVEMap: map[string][]string{
			"CVE-2021-44228": {"log4j", "log4j2", "apache:logging-log4j"},
			"CVE-2021-21330": {"commons-text", "apache:commons-text"},
			"CVE-2021-22119": {"spring", "spring-framework"},
			"CVE-2021-41773": {"apache", "httpd"},
		},
		Stopwords: []string{
			"the", "and", "or", "a", "an", "in", "on", "at", "to", "for",
			"of", "is", "are", "was", "were", "be", "have", "has", "had",
			"do", "does", "did", "will", "would", "could", "should",
			"may", "might", "must", "can", "vulnerability", "issue", "cve",
			"attack", "allow", "could", "may", "affect", "version",
			"remote", "local", "denial", "service", "execution",
		},
		CommonNames: []string{
			"log4j", "spring", "django", "flask", "express",
			"openssl", "mysql", "postgresql", "sqlite",
			"requests", "curl", "wget", "nginx",
			"apache", "tomcat", "jboss", "jetty",
		},
	}
}
