package view

// pageScript connects the page to its session: it runs the observations the
// server asks for and applies the state the server pushes back.
const pageScript = `
(function () {
  var session = document.body.dataset.session;
  if (!session || !("WebSocket" in window)) {
    document.querySelectorAll(".reveal").forEach(function (el) { el.classList.add("is-visible"); });
    return;
  }

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var socket = new WebSocket(proto + location.host + "/ws?session=" + encodeURIComponent(session));
  var observers = {};

  function send(type, data) {
    if (socket.readyState === WebSocket.OPEN) {
      socket.send(JSON.stringify({ type: type, data: data }));
    }
  }

  function observe(msg) {
    var observer = new IntersectionObserver(function (entries) {
      send("intersect", {
        id: msg.id,
        entries: entries.map(function (e) {
          return { target: e.target.id, ratio: e.intersectionRatio, intersecting: e.isIntersecting };
        })
      });
    }, { threshold: msg.threshold, rootMargin: msg.root_margin || "0px" });
    msg.targets.forEach(function (id) {
      var el = document.getElementById(id);
      if (el) { observer.observe(el); }
    });
    observers[msg.id] = observer;
  }

  function unobserve(msg) {
    var observer = observers[msg.id];
    if (observer) {
      observer.disconnect();
      delete observers[msg.id];
    }
  }

  var handlers = {
    observe: observe,
    unobserve: unobserve,
    reveal: function (d) {
      var el = document.getElementById(d.section);
      if (el) { el.classList.add("is-visible"); }
    },
    "reveal-item": function (d) {
      var el = document.getElementById(d.section + "-item-" + d.index);
      if (el) {
        el.style.transitionDelay = d.delay_ms + "ms";
        el.classList.add("is-visible");
      }
      var cta = document.getElementById(d.section + "-cta");
      if (cta) { cta.classList.add("is-visible"); }
    },
    role: function (d) {
      var el = document.getElementById("role-label");
      if (el) { el.textContent = d.label; }
    },
    skill: function (d) {
      document.querySelectorAll(".skill-bar").forEach(function (el) {
        if (el.dataset.skill === d.name) { el.style.width = d.level + "%"; }
      });
    },
    nav: function (d) {
      var nav = document.getElementById("navbar");
      nav.classList.toggle("is-scrolled", d.scrolled);
      nav.classList.toggle("menu-open", d.menu_open);
      document.getElementById("menu-toggle").setAttribute("aria-expanded", String(d.menu_open));
    },
    submission: function (d) {
      var button = document.getElementById("contact-submit");
      if (!button) { return; }
      button.disabled = d.status === "submitting";
      button.textContent = button.disabled ? "Sending..." : "Send Message";
    }
  };

  socket.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    var handle = handlers[msg.type];
    if (handle) { handle(msg.data); }
  };
  socket.onclose = function () {
    Object.keys(observers).forEach(function (id) { unobserve({ id: id }); });
  };

  var pending = false;
  window.addEventListener("scroll", function () {
    if (pending) { return; }
    pending = true;
    requestAnimationFrame(function () {
      pending = false;
      send("scroll", { y: window.scrollY });
    });
  }, { passive: true });

  document.getElementById("menu-toggle").addEventListener("click", function () {
    var open = this.getAttribute("aria-expanded") !== "true";
    send("menu", { open: open });
  });
  document.querySelectorAll("[data-nav]").forEach(function (link) {
    link.addEventListener("click", function () { send("menu", { open: false }); });
  });

  document.body.addEventListener("htmx:configRequest", function (ev) {
    ev.detail.parameters.session = session;
  });
  // The contact form comes back with field errors on 400.
  document.body.addEventListener("htmx:beforeSwap", function (ev) {
    if (ev.detail.xhr.status === 400 && ev.detail.target.id === "contact-form") {
      ev.detail.shouldSwap = true;
      ev.detail.isError = false;
    }
  });
})();
`
