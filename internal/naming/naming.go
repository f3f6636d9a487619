// Package naming centralizes the pod naming convention and the derived proxy
// URL format. Pods belonging to a project are named
// {project}-{podType}-{timestamp}; discovery matches on the
// {project}-{podType}- prefix. Keeping the logic here allows future changes
// without touching call sites.
package naming

import (
	"fmt"
	"strings"
)

// ProxyDomain is the provider domain used to derive pod access URLs.
const ProxyDomain = "proxy.runpod.net"

// ProxyPort is the pod port exposed through the provider proxy.
const ProxyPort = 5000

// PodNamePrefix returns the discovery prefix for a project / pod type pair.
func PodNamePrefix(project, podType string) string {
	return fmt.Sprintf("%s-%s-", project, podType)
}

// PodName returns the full pod name for a project / pod type pair and a
// creation timestamp (unix seconds).
func PodName(project, podType string, timestamp int64) string {
	return fmt.Sprintf("%s-%s-%d", project, podType, timestamp)
}

// PodURL derives the proxy host for a pod ID, e.g. "abc123-5000.proxy.runpod.net".
func PodURL(podID string) string {
	return fmt.Sprintf("%s-%d.%s", podID, ProxyPort, ProxyDomain)
}

// NormalizeURL prepends https:// to a pod URL unless it already carries a scheme.
func NormalizeURL(podURL string) string {
	if podURL == "" || strings.HasPrefix(podURL, "http") {
		return podURL
	}
	return "https://" + podURL
}
